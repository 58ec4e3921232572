package services

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/aayush1303/Estatesync/internal/models"
)

// Fixed validation messages. The import report shows these verbatim, so
// wording changes are breaking changes for API consumers.
const (
	msgFullNameRequired = "Full name is required"
	msgFullNameLength   = "Full name must be between 2 and 80 characters"
	msgEmailInvalid     = "Email is invalid"
	msgPhoneRequired    = "Phone is required"
	msgPhoneFormat      = "Phone must be 10-15 digits"
	msgBudgetPositive   = "Budget must be a positive number"
	msgBudgetOrdering   = "Budget maximum must be greater than or equal to minimum"
	msgBHKRequired      = "BHK is required for Apartment and Villa properties"
	msgNotesTooLong     = "Notes must be at most 1000 characters"
	msgURLInvalid       = "Attachment URL must be a valid URL"
)

const (
	fullNameMinLen = 2
	fullNameMaxLen = 80
	notesMaxLen    = 1000
)

// Validator validates raw lead records against all field constraints and
// cross-field business rules. It is stateless after construction and safe
// for concurrent use.
type Validator struct {
	normalizer   *Normalizer
	phonePattern *regexp.Regexp
	emailPattern *regexp.Regexp
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		normalizer: NewNormalizer(),
		// Phone numbers must be bare digits, 10 to 15 of them.
		phonePattern: regexp.MustCompile(`^\d{10,15}$`),
		emailPattern: regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
	}
}

// Validate normalizes and validates a raw record. On success it returns a
// fresh Lead reflecting the normalized input; on failure it returns every
// field error found. Errors accumulate: independent field checks all run
// first, then the two cross-field rules run unconditionally, so a record
// can report an invalid city and a missing BHK at the same time. The
// input map is never mutated.
func (v *Validator) Validate(raw map[string]string) (*models.Lead, []models.FieldError) {
	input := v.normalizer.Normalize(raw)

	errs := v.checkFields(input)
	errs = append(errs, v.checkCrossFieldRules(input)...)

	if len(errs) > 0 {
		return nil, errs
	}

	lead := &models.Lead{
		FullName:      input.FullName,
		Email:         input.Email,
		Phone:         input.Phone,
		City:          models.City(input.City),
		PropertyType:  models.PropertyType(input.PropertyType),
		BHK:           models.BHK(input.BHK),
		Purpose:       models.Purpose(input.Purpose),
		BudgetMin:     input.BudgetMin,
		BudgetMax:     input.BudgetMax,
		Timeline:      models.Timeline(input.Timeline),
		Source:        models.Source(input.Source),
		Status:        models.LeadStatus(input.Status),
		Notes:         input.Notes,
		Tags:          input.Tags,
		AttachmentURL: input.AttachmentURL,
	}

	return lead, nil
}

// checkFields runs every independent per-field rule and collects all
// failures without short-circuiting.
func (v *Validator) checkFields(input *LeadInput) []models.FieldError {
	var errs []models.FieldError

	switch {
	case input.FullName == "":
		errs = append(errs, models.NewFieldError("fullName", msgFullNameRequired))
	case len([]rune(input.FullName)) < fullNameMinLen || len([]rune(input.FullName)) > fullNameMaxLen:
		errs = append(errs, models.NewFieldError("fullName", msgFullNameLength))
	}

	if input.Email != "" && !v.emailPattern.MatchString(input.Email) {
		errs = append(errs, models.NewFieldError("email", msgEmailInvalid))
	}

	switch {
	case input.Phone == "":
		errs = append(errs, models.NewFieldError("phone", msgPhoneRequired))
	case !v.phonePattern.MatchString(input.Phone):
		errs = append(errs, models.NewFieldError("phone", msgPhoneFormat))
	}

	if err := checkEnum("city", "City", input.City, models.City(input.City).IsValid(), true); err != nil {
		errs = append(errs, *err)
	}
	if err := checkEnum("propertyType", "Property type", input.PropertyType, models.PropertyType(input.PropertyType).IsValid(), true); err != nil {
		errs = append(errs, *err)
	}
	if err := checkEnum("bhk", "BHK", input.BHK, models.BHK(input.BHK).IsValid(), false); err != nil {
		errs = append(errs, *err)
	}
	if err := checkEnum("purpose", "Purpose", input.Purpose, models.Purpose(input.Purpose).IsValid(), true); err != nil {
		errs = append(errs, *err)
	}
	if err := checkEnum("timeline", "Timeline", input.Timeline, models.Timeline(input.Timeline).IsValid(), true); err != nil {
		errs = append(errs, *err)
	}
	if err := checkEnum("source", "Source", input.Source, models.Source(input.Source).IsValid(), true); err != nil {
		errs = append(errs, *err)
	}
	// Status is defaulted to New during normalization, so it is never
	// empty here; only unknown values can fail.
	if err := checkEnum("status", "Status", input.Status, models.LeadStatus(input.Status).IsValid(), true); err != nil {
		errs = append(errs, *err)
	}

	if input.BudgetMin != nil && *input.BudgetMin <= 0 {
		errs = append(errs, models.NewFieldError("budgetMin", msgBudgetPositive))
	}
	if input.BudgetMax != nil && *input.BudgetMax <= 0 {
		errs = append(errs, models.NewFieldError("budgetMax", msgBudgetPositive))
	}

	if len([]rune(input.Notes)) > notesMaxLen {
		errs = append(errs, models.NewFieldError("notes", msgNotesTooLong))
	}

	if input.AttachmentURL != "" && !isValidURL(input.AttachmentURL) {
		errs = append(errs, models.NewFieldError("attachmentUrl", msgURLInvalid))
	}

	return errs
}

// checkCrossFieldRules runs the two named business rules that span more
// than one field. They run regardless of how many independent field
// errors were already collected.
func (v *Validator) checkCrossFieldRules(input *LeadInput) []models.FieldError {
	var errs []models.FieldError

	// BHK is mandatory for residential property types only. Other
	// property types may carry a BHK but are not required to.
	if models.PropertyType(input.PropertyType).IsResidential() && input.BHK == "" {
		errs = append(errs, models.NewFieldError("bhk", msgBHKRequired))
	}

	if input.BudgetMin != nil && input.BudgetMax != nil && *input.BudgetMax < *input.BudgetMin {
		errs = append(errs, models.NewFieldError("budgetMax", msgBudgetOrdering))
	}

	return errs
}

// checkEnum validates a closed-set membership. Required fields fail when
// blank; optional fields are only checked when a value is present.
func checkEnum(field, label, value string, valid, required bool) *models.FieldError {
	if value == "" {
		if required {
			err := models.NewFieldError(field, fmt.Sprintf("%s is required", label))
			return &err
		}
		return nil
	}

	if !valid {
		err := models.NewFieldError(field, fmt.Sprintf("%s must be one of the allowed values", label))
		return &err
	}

	return nil
}

// isValidURL accepts absolute URLs with a scheme and host.
func isValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
