package form

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bricksvaluation/web/internal/dto"
)

// Field names of the brick set and valuation forms.
const (
	FieldNumber               = "number"
	FieldProductionStatus     = "production_status"
	FieldCompleteness         = "completeness"
	FieldOwnerInitialEstimate = "owner_initial_estimate"
	FieldValue                = "value"
	FieldComment              = "comment"
)

// Message keys for brick set validation errors.
const (
	ErrNumberRequired           = "bricksets.create.errors.numberRequired"
	ErrNumberFormat             = "bricksets.create.errors.numberFormat"
	ErrNumberRange              = "bricksets.create.errors.numberRange"
	ErrProductionStatusRequired = "bricksets.create.errors.productionStatusRequired"
	ErrProductionStatusInvalid  = "bricksets.create.errors.productionStatusInvalid"
	ErrCompletenessRequired     = "bricksets.create.errors.completenessRequired"
	ErrCompletenessInvalid      = "bricksets.create.errors.completenessInvalid"
	ErrEstimateFormat           = "bricksets.create.errors.estimateFormat"
	ErrEstimateRange            = "bricksets.create.errors.estimateRange"
)

// Message keys for valuation validation errors.
const (
	ErrValueRequired  = "valuation.errors.required"
	ErrValueFormat    = "valuation.errors.format"
	ErrValueMin       = "valuation.errors.min"
	ErrValueMax       = "valuation.errors.max"
	ErrCommentTooLong = "valuation.errors.commentTooLong"
)

const (
	maxSetNumber     = 9_999_999
	maxEstimate      = 999_999
	maxValue         = 999_999
	maxCommentLength = 2000
)

var digitsPattern = regexp.MustCompile(`^\d+$`)

// BrickSetForm holds the add-set input as typed by the user.
type BrickSetForm struct {
	Number               string
	ProductionStatus     string
	Completeness         string
	HasInstructions      bool
	HasBox               bool
	IsFactorySealed      bool
	OwnerInitialEstimate string

	fieldErrors
}

// ValidateField validates a single field, trimming text input in place.
// Unknown fields are always valid.
func (f *BrickSetForm) ValidateField(field string) bool {
	switch field {
	case FieldNumber:
		f.Number = strings.TrimSpace(f.Number)
		return f.check(field, numberError(f.Number))
	case FieldProductionStatus:
		return f.check(field, choiceError(f.ProductionStatus, dto.ProductionStatus(f.ProductionStatus).Valid(),
			ErrProductionStatusRequired, ErrProductionStatusInvalid))
	case FieldCompleteness:
		return f.check(field, choiceError(f.Completeness, dto.Completeness(f.Completeness).Valid(),
			ErrCompletenessRequired, ErrCompletenessInvalid))
	case FieldOwnerInitialEstimate:
		f.OwnerInitialEstimate = strings.TrimSpace(f.OwnerInitialEstimate)
		return f.check(field, estimateError(f.OwnerInitialEstimate))
	default:
		return true
	}
}

// Validate checks every field and reports whether the form is valid.
func (f *BrickSetForm) Validate() bool {
	valid := true
	for _, field := range []string{FieldNumber, FieldProductionStatus, FieldCompleteness, FieldOwnerInitialEstimate} {
		if !f.ValidateField(field) {
			valid = false
		}
	}
	return valid
}

// Request builds the API payload. Call it only after Validate succeeded.
func (f *BrickSetForm) Request() dto.CreateBrickSetRequest {
	number, _ := strconv.Atoi(f.Number)
	req := dto.CreateBrickSetRequest{
		Number:           number,
		ProductionStatus: dto.ProductionStatus(f.ProductionStatus),
		Completeness:     dto.Completeness(f.Completeness),
		HasInstructions:  f.HasInstructions,
		HasBox:           f.HasBox,
		IsFactorySealed:  f.IsFactorySealed,
	}
	if f.OwnerInitialEstimate != "" {
		estimate, _ := strconv.Atoi(f.OwnerInitialEstimate)
		req.OwnerInitialEstimate = &estimate
	}
	return req
}

// ValuationForm holds a valuation as typed by the user.
type ValuationForm struct {
	Value   string
	Comment string

	fieldErrors
}

// ValidateField validates a single field. Unknown fields are always valid.
func (f *ValuationForm) ValidateField(field string) bool {
	switch field {
	case FieldValue:
		f.Value = strings.TrimSpace(f.Value)
		return f.check(field, valueError(f.Value))
	case FieldComment:
		if utf8.RuneCountInString(f.Comment) > maxCommentLength {
			return f.check(field, ErrCommentTooLong)
		}
		return f.check(field, "")
	default:
		return true
	}
}

// Validate checks every field and reports whether the form is valid.
func (f *ValuationForm) Validate() bool {
	value := f.ValidateField(FieldValue)
	comment := f.ValidateField(FieldComment)
	return value && comment
}

// Request builds the API payload. The currency is left to the server default.
func (f *ValuationForm) Request() dto.CreateValuationRequest {
	value, _ := strconv.Atoi(f.Value)
	return dto.CreateValuationRequest{Value: value, Comment: strings.TrimSpace(f.Comment)}
}

func numberError(number string) string {
	switch {
	case number == "":
		return ErrNumberRequired
	case !digitsPattern.MatchString(number):
		return ErrNumberFormat
	}
	if n, err := strconv.Atoi(number); err != nil || n > maxSetNumber {
		return ErrNumberRange
	}
	return ""
}

func choiceError(value string, valid bool, required, invalid string) string {
	switch {
	case value == "":
		return required
	case !valid:
		return invalid
	}
	return ""
}

func estimateError(estimate string) string {
	if estimate == "" {
		return ""
	}
	if !digitsPattern.MatchString(estimate) {
		return ErrEstimateFormat
	}
	if n, err := strconv.Atoi(estimate); err != nil || n < 1 || n > maxEstimate {
		return ErrEstimateRange
	}
	return ""
}

func valueError(value string) string {
	if value == "" {
		return ErrValueRequired
	}
	n, err := strconv.Atoi(value)
	switch {
	case err != nil && digitsPattern.MatchString(value):
		return ErrValueMax
	case err != nil:
		return ErrValueFormat
	case n < 1:
		return ErrValueMin
	case n > maxValue:
		return ErrValueMax
	}
	return ""
}
