package models

// City is the closed set of cities a buyer lead can target
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// IsValid checks if the value is a member of the City set
func (c City) IsValid() bool {
	switch c {
	case CityChandigarh, CityMohali, CityZirakpur, CityPanchkula, CityOther:
		return true
	default:
		return false
	}
}

// PropertyType is the closed set of property types
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"
)

// IsValid checks if the value is a member of the PropertyType set
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyApartment, PropertyVilla, PropertyPlot, PropertyOffice, PropertyRetail:
		return true
	default:
		return false
	}
}

// IsResidential returns true for property types that require a BHK value
func (p PropertyType) IsResidential() bool {
	return p == PropertyApartment || p == PropertyVilla
}

// BHK is the closed set of bedroom configurations
type BHK string

const (
	BHKOne    BHK = "1"
	BHKTwo    BHK = "2"
	BHKThree  BHK = "3"
	BHKFour   BHK = "4"
	BHKStudio BHK = "Studio"
)

// IsValid checks if the value is a member of the BHK set
func (b BHK) IsValid() bool {
	switch b {
	case BHKOne, BHKTwo, BHKThree, BHKFour, BHKStudio:
		return true
	default:
		return false
	}
}

// Purpose is the closed set of lead purposes
type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

// IsValid checks if the value is a member of the Purpose set
func (p Purpose) IsValid() bool {
	return p == PurposeBuy || p == PurposeRent
}

// Timeline is the closed set of purchase timelines
type Timeline string

const (
	TimelineZeroToThree Timeline = "0-3m"
	TimelineThreeToSix  Timeline = "3-6m"
	TimelineOverSix     Timeline = ">6m"
	TimelineExploring   Timeline = "Exploring"
)

// IsValid checks if the value is a member of the Timeline set
func (t Timeline) IsValid() bool {
	switch t {
	case TimelineZeroToThree, TimelineThreeToSix, TimelineOverSix, TimelineExploring:
		return true
	default:
		return false
	}
}

// Source is the closed set of lead acquisition channels
type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "Walk-in"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

// IsValid checks if the value is a member of the Source set
func (s Source) IsValid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourceWalkIn, SourceCall, SourceOther:
		return true
	default:
		return false
	}
}

// LeadStatus represents the current stage of a lead in the sales funnel
type LeadStatus string

const (
	// LeadStatusNew is the default status assigned to freshly created leads
	LeadStatusNew LeadStatus = "New"

	LeadStatusQualified   LeadStatus = "Qualified"
	LeadStatusContacted   LeadStatus = "Contacted"
	LeadStatusVisited     LeadStatus = "Visited"
	LeadStatusNegotiation LeadStatus = "Negotiation"
	LeadStatusConverted   LeadStatus = "Converted"
	LeadStatusDropped     LeadStatus = "Dropped"
)

// IsValid checks if the status is a valid LeadStatus value
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusQualified, LeadStatusContacted,
		LeadStatusVisited, LeadStatusNegotiation, LeadStatusConverted, LeadStatusDropped:
		return true
	default:
		return false
	}
}
