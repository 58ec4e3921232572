package services

import (
	"strings"
	"testing"

	"github.com/aayush1303/Estatesync/internal/models"
)

// validRecord returns a raw record that passes every rule. Tests mutate
// single fields to probe individual failures.
func validRecord() map[string]string {
	return map[string]string{
		"fullName":     "Aarav Sharma",
		"email":        "aarav@example.com",
		"phone":        "9876543210",
		"city":         "Chandigarh",
		"propertyType": "Apartment",
		"bhk":          "2",
		"purpose":      "Buy",
		"budgetMin":    "1000000",
		"budgetMax":    "2000000",
		"timeline":     "0-3m",
		"source":       "Website",
		"notes":        "Prefers a corner unit",
		"tags":         "urgent,family",
		"status":       "New",
	}
}

func hasFieldError(errs []models.FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func fieldMessage(errs []models.FieldError, field string) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func TestValidate_ValidRecord(t *testing.T) {
	validator := NewValidator()

	lead, errs := validator.Validate(validRecord())
	if len(errs) > 0 {
		t.Fatalf("Expected no errors, got %v", errs)
	}
	if lead == nil {
		t.Fatal("Expected a lead, got nil")
	}

	if lead.FullName != "Aarav Sharma" {
		t.Errorf("Expected fullName 'Aarav Sharma', got %q", lead.FullName)
	}
	if lead.City != models.CityChandigarh {
		t.Errorf("Expected city Chandigarh, got %q", lead.City)
	}
	if lead.BHK != models.BHKTwo {
		t.Errorf("Expected bhk 2, got %q", lead.BHK)
	}
	if lead.BudgetMin == nil || *lead.BudgetMin != 1000000 {
		t.Errorf("Expected budgetMin 1000000, got %v", lead.BudgetMin)
	}
	if lead.BudgetMax == nil || *lead.BudgetMax != 2000000 {
		t.Errorf("Expected budgetMax 2000000, got %v", lead.BudgetMax)
	}
	if len(lead.Tags) != 2 || lead.Tags[0] != "urgent" || lead.Tags[1] != "family" {
		t.Errorf("Expected tags [urgent family], got %v", lead.Tags)
	}
	if lead.Status != models.LeadStatusNew {
		t.Errorf("Expected status New, got %q", lead.Status)
	}
}

func TestValidate_TrimsAndNormalizes(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["fullName"] = "  Aarav Sharma  "
	record["city"] = " Chandigarh "
	record["tags"] = "urgent, family ,,"
	record["status"] = ""

	lead, errs := validator.Validate(record)
	if len(errs) > 0 {
		t.Fatalf("Expected no errors, got %v", errs)
	}

	if lead.FullName != "Aarav Sharma" {
		t.Errorf("Expected trimmed fullName, got %q", lead.FullName)
	}
	if lead.City != models.CityChandigarh {
		t.Errorf("Expected trimmed city, got %q", lead.City)
	}
	if len(lead.Tags) != 2 || lead.Tags[0] != "urgent" || lead.Tags[1] != "family" {
		t.Errorf("Expected tags [urgent family], got %v", lead.Tags)
	}
	if lead.Status != models.LeadStatusNew {
		t.Errorf("Expected blank status to default to New, got %q", lead.Status)
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	validator := NewValidator()

	required := []string{"fullName", "phone", "city", "propertyType", "purpose", "timeline", "source"}
	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			record := validRecord()
			record[field] = ""

			lead, errs := validator.Validate(record)
			if lead != nil {
				t.Fatalf("Expected validation to fail when %s is missing", field)
			}
			if !hasFieldError(errs, field) {
				t.Errorf("Expected an error tagged %q, got %v", field, errs)
			}
		})
	}
}

func TestValidate_BHKRequiredForResidential(t *testing.T) {
	validator := NewValidator()

	for _, propertyType := range []string{"Apartment", "Villa"} {
		t.Run(propertyType, func(t *testing.T) {
			record := validRecord()
			record["propertyType"] = propertyType
			record["bhk"] = ""

			lead, errs := validator.Validate(record)
			if lead != nil {
				t.Fatalf("Expected validation to fail for %s without BHK", propertyType)
			}
			if !hasFieldError(errs, "bhk") {
				t.Fatalf("Expected an error tagged bhk, got %v", errs)
			}
			msg := fieldMessage(errs, "bhk")
			if !strings.Contains(msg, "BHK is required for Apartment and Villa properties") {
				t.Errorf("Unexpected bhk message %q", msg)
			}
		})
	}
}

func TestValidate_BHKOptionalForNonResidential(t *testing.T) {
	validator := NewValidator()

	for _, propertyType := range []string{"Plot", "Office", "Retail"} {
		t.Run(propertyType, func(t *testing.T) {
			record := validRecord()
			record["propertyType"] = propertyType
			record["bhk"] = ""

			lead, errs := validator.Validate(record)
			if len(errs) > 0 {
				t.Fatalf("Expected success for %s without BHK, got %v", propertyType, errs)
			}
			if lead.BHK != "" {
				t.Errorf("Expected empty BHK, got %q", lead.BHK)
			}
		})
	}
}

func TestValidate_BudgetOrdering(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["budgetMin"] = "2000000"
	record["budgetMax"] = "1000000"

	lead, errs := validator.Validate(record)
	if lead != nil {
		t.Fatal("Expected validation to fail for inverted budgets")
	}
	if !hasFieldError(errs, "budgetMax") {
		t.Fatalf("Expected an error tagged budgetMax, got %v", errs)
	}
	msg := fieldMessage(errs, "budgetMax")
	if !strings.Contains(msg, "Budget maximum must be greater than or equal to minimum") {
		t.Errorf("Unexpected budgetMax message %q", msg)
	}
}

func TestValidate_BudgetOneSided(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["budgetMin"] = "500000"
	record["budgetMax"] = ""
	if _, errs := validator.Validate(record); len(errs) > 0 {
		t.Errorf("Expected budgetMin alone to pass, got %v", errs)
	}

	record = validRecord()
	record["budgetMin"] = ""
	record["budgetMax"] = "500000"
	if _, errs := validator.Validate(record); len(errs) > 0 {
		t.Errorf("Expected budgetMax alone to pass, got %v", errs)
	}
}

func TestValidate_BudgetEqualIsAllowed(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["budgetMin"] = "1000000"
	record["budgetMax"] = "1000000"

	if _, errs := validator.Validate(record); len(errs) > 0 {
		t.Errorf("Expected equal budgets to pass, got %v", errs)
	}
}

func TestValidate_BudgetUnparseableTreatedAsAbsent(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["budgetMin"] = "ten lakh"
	record["budgetMax"] = "1,000,000"

	lead, errs := validator.Validate(record)
	if len(errs) > 0 {
		t.Fatalf("Expected unparseable budgets to be dropped, got %v", errs)
	}
	if lead.BudgetMin != nil || lead.BudgetMax != nil {
		t.Errorf("Expected nil budgets, got %v / %v", lead.BudgetMin, lead.BudgetMax)
	}
}

func TestValidate_BudgetMustBePositive(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["budgetMin"] = "0"
	record["budgetMax"] = "-5"

	_, errs := validator.Validate(record)
	if !hasFieldError(errs, "budgetMin") {
		t.Errorf("Expected zero budgetMin to fail, got %v", errs)
	}
	if !hasFieldError(errs, "budgetMax") {
		t.Errorf("Expected negative budgetMax to fail, got %v", errs)
	}
}

func TestValidate_PhoneFormat(t *testing.T) {
	validator := NewValidator()

	cases := []struct {
		phone string
		valid bool
	}{
		{"123456789", false},        // 9 digits
		{"1234567890123456", false}, // 16 digits
		{"98765-43210", false},      // separator
		{"+919876543210", false},    // country code symbol
		{"1234567890", true},        // 10 digits
		{"123456789012345", true},   // 15 digits
	}

	for _, tc := range cases {
		record := validRecord()
		record["phone"] = tc.phone

		_, errs := validator.Validate(record)
		if tc.valid && hasFieldError(errs, "phone") {
			t.Errorf("Expected phone %q to pass, got %v", tc.phone, errs)
		}
		if !tc.valid && !hasFieldError(errs, "phone") {
			t.Errorf("Expected phone %q to fail", tc.phone)
		}
	}
}

func TestValidate_FullNameLength(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["fullName"] = "A"
	if _, errs := validator.Validate(record); !hasFieldError(errs, "fullName") {
		t.Error("Expected one-character fullName to fail")
	}

	record = validRecord()
	record["fullName"] = strings.Repeat("a", 81)
	if _, errs := validator.Validate(record); !hasFieldError(errs, "fullName") {
		t.Error("Expected 81-character fullName to fail")
	}

	record = validRecord()
	record["fullName"] = strings.Repeat("a", 80)
	if _, errs := validator.Validate(record); hasFieldError(errs, "fullName") {
		t.Error("Expected 80-character fullName to pass")
	}
}

func TestValidate_UnknownEnumValues(t *testing.T) {
	validator := NewValidator()

	cases := map[string]string{
		"city":         "Delhi",
		"propertyType": "Castle",
		"purpose":      "Lease",
		"timeline":     "whenever",
		"source":       "Billboard",
		"status":       "Archived",
	}

	for field, value := range cases {
		t.Run(field, func(t *testing.T) {
			record := validRecord()
			record[field] = value

			_, errs := validator.Validate(record)
			if !hasFieldError(errs, field) {
				t.Errorf("Expected %s=%q to fail, got %v", field, value, errs)
			}
		})
	}
}

func TestValidate_EnumsAreCaseSensitive(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["city"] = "chandigarh"

	if _, errs := validator.Validate(record); !hasFieldError(errs, "city") {
		t.Error("Expected lowercase city to fail exact-match membership")
	}
}

func TestValidate_EmailOptionalButChecked(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["email"] = ""
	if _, errs := validator.Validate(record); len(errs) > 0 {
		t.Errorf("Expected absent email to pass, got %v", errs)
	}

	record = validRecord()
	record["email"] = "not-an-email"
	if _, errs := validator.Validate(record); !hasFieldError(errs, "email") {
		t.Error("Expected malformed email to fail")
	}
}

func TestValidate_NotesLength(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["notes"] = strings.Repeat("x", 1000)
	if _, errs := validator.Validate(record); hasFieldError(errs, "notes") {
		t.Error("Expected 1000-character notes to pass")
	}

	record["notes"] = strings.Repeat("x", 1001)
	if _, errs := validator.Validate(record); !hasFieldError(errs, "notes") {
		t.Error("Expected 1001-character notes to fail")
	}
}

func TestValidate_AttachmentURL(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["attachmentUrl"] = "https://example.com/doc.pdf"
	if _, errs := validator.Validate(record); len(errs) > 0 {
		t.Errorf("Expected valid URL to pass, got %v", errs)
	}

	record["attachmentUrl"] = "not a url"
	if _, errs := validator.Validate(record); !hasFieldError(errs, "attachmentUrl") {
		t.Error("Expected malformed URL to fail")
	}
}

// Errors accumulate across independent and cross-field rules instead of
// stopping at the first failure.
func TestValidate_ErrorsAccumulate(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["fullName"] = "A"
	record["phone"] = "12345"
	record["city"] = "Delhi"
	record["bhk"] = "" // propertyType stays Apartment, so the cross-field rule fires too

	lead, errs := validator.Validate(record)
	if lead != nil {
		t.Fatal("Expected validation to fail")
	}
	if len(errs) < 4 {
		t.Fatalf("Expected at least 4 accumulated errors, got %d: %v", len(errs), errs)
	}
	for _, field := range []string{"fullName", "phone", "city", "bhk"} {
		if !hasFieldError(errs, field) {
			t.Errorf("Expected an error tagged %q", field)
		}
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["fullName"] = "  Aarav Sharma  "

	validator.Validate(record)

	if record["fullName"] != "  Aarav Sharma  " {
		t.Errorf("Input map was mutated: %q", record["fullName"])
	}
}

func TestValidate_TagDuplicatesKept(t *testing.T) {
	validator := NewValidator()

	record := validRecord()
	record["tags"] = "vip,vip,urgent"

	lead, errs := validator.Validate(record)
	if len(errs) > 0 {
		t.Fatalf("Expected success, got %v", errs)
	}
	if len(lead.Tags) != 3 {
		t.Errorf("Expected duplicates to be kept, got %v", lead.Tags)
	}
}
