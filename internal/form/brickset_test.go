package form

import (
	"strings"
	"testing"

	"github.com/bricksvaluation/web/internal/dto"
)

func validBrickSetForm() *BrickSetForm {
	return &BrickSetForm{
		Number:           "10179",
		ProductionStatus: "RETIRED",
		Completeness:     "COMPLETE",
		HasBox:           true,
	}
}

func TestBrickSetForm_ValidateField(t *testing.T) {
	tests := map[string]struct {
		mutate func(f *BrickSetForm)
		field  string
		want   string
	}{
		"number required":      {func(f *BrickSetForm) { f.Number = "  " }, FieldNumber, ErrNumberRequired},
		"number format":        {func(f *BrickSetForm) { f.Number = "10179a" }, FieldNumber, ErrNumberFormat},
		"number negative":      {func(f *BrickSetForm) { f.Number = "-1" }, FieldNumber, ErrNumberFormat},
		"number too large":     {func(f *BrickSetForm) { f.Number = "10000000" }, FieldNumber, ErrNumberRange},
		"number overflow":      {func(f *BrickSetForm) { f.Number = strings.Repeat("9", 30) }, FieldNumber, ErrNumberRange},
		"number max":           {func(f *BrickSetForm) { f.Number = "9999999" }, FieldNumber, ""},
		"status required":      {func(f *BrickSetForm) { f.ProductionStatus = "" }, FieldProductionStatus, ErrProductionStatusRequired},
		"status invalid":       {func(f *BrickSetForm) { f.ProductionStatus = "retired" }, FieldProductionStatus, ErrProductionStatusInvalid},
		"completeness missing": {func(f *BrickSetForm) { f.Completeness = "" }, FieldCompleteness, ErrCompletenessRequired},
		"completeness invalid": {func(f *BrickSetForm) { f.Completeness = "PARTIAL" }, FieldCompleteness, ErrCompletenessInvalid},
		"estimate optional":    {func(f *BrickSetForm) { f.OwnerInitialEstimate = " " }, FieldOwnerInitialEstimate, ""},
		"estimate format":      {func(f *BrickSetForm) { f.OwnerInitialEstimate = "12.5" }, FieldOwnerInitialEstimate, ErrEstimateFormat},
		"estimate zero":        {func(f *BrickSetForm) { f.OwnerInitialEstimate = "0" }, FieldOwnerInitialEstimate, ErrEstimateRange},
		"estimate too large":   {func(f *BrickSetForm) { f.OwnerInitialEstimate = "1000000" }, FieldOwnerInitialEstimate, ErrEstimateRange},
		"unknown field":        {func(f *BrickSetForm) {}, "owner", ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := validBrickSetForm()
			tt.mutate(f)

			ok := f.ValidateField(tt.field)
			if ok != (tt.want == "") {
				t.Fatalf("expected valid=%v, got %v", tt.want == "", ok)
			}
			if got := f.FieldError(tt.field); got != tt.want {
				t.Fatalf("expected error %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBrickSetForm_Request(t *testing.T) {
	f := validBrickSetForm()
	f.Number = " 10179 "
	f.OwnerInitialEstimate = "3500"

	if !f.Validate() {
		t.Fatalf("expected valid form, got errors %v", f.FieldErrors())
	}
	req := f.Request()
	if req.Number != 10179 || req.ProductionStatus != dto.ProductionRetired || req.Completeness != dto.Complete {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !req.HasBox || req.HasInstructions || req.IsFactorySealed {
		t.Fatalf("unexpected flags: %+v", req)
	}
	if req.OwnerInitialEstimate == nil || *req.OwnerInitialEstimate != 3500 {
		t.Fatalf("expected estimate 3500, got %v", req.OwnerInitialEstimate)
	}

	f.OwnerInitialEstimate = ""
	if got := f.Request().OwnerInitialEstimate; got != nil {
		t.Fatalf("expected no estimate, got %d", *got)
	}
}

func TestBrickSetForm_ValidateReportsEveryField(t *testing.T) {
	f := &BrickSetForm{OwnerInitialEstimate: "x"}
	if f.Validate() {
		t.Fatal("expected invalid form")
	}
	want := map[string]string{
		FieldNumber:               ErrNumberRequired,
		FieldProductionStatus:     ErrProductionStatusRequired,
		FieldCompleteness:         ErrCompletenessRequired,
		FieldOwnerInitialEstimate: ErrEstimateFormat,
	}
	got := f.FieldErrors()
	if len(got) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), got)
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, got[field])
		}
	}

	f.Number = "75192"
	if !f.ValidateField(FieldNumber) || f.FieldError(FieldNumber) != "" {
		t.Fatalf("expected number error cleared, got %q", f.FieldError(FieldNumber))
	}
}

func TestValuationForm_ValidateField(t *testing.T) {
	tests := map[string]struct {
		form  ValuationForm
		field string
		want  string
	}{
		"value required":   {ValuationForm{Value: " "}, FieldValue, ErrValueRequired},
		"value format":     {ValuationForm{Value: "12,50"}, FieldValue, ErrValueFormat},
		"value zero":       {ValuationForm{Value: "0"}, FieldValue, ErrValueMin},
		"value negative":   {ValuationForm{Value: "-10"}, FieldValue, ErrValueMin},
		"value too large":  {ValuationForm{Value: "1000000"}, FieldValue, ErrValueMax},
		"value overflow":   {ValuationForm{Value: strings.Repeat("9", 30)}, FieldValue, ErrValueMax},
		"value max":        {ValuationForm{Value: "999999"}, FieldValue, ""},
		"comment at limit": {ValuationForm{Comment: strings.Repeat("ą", 2000)}, FieldComment, ""},
		"comment too long": {ValuationForm{Comment: strings.Repeat("a", 2001)}, FieldComment, ErrCommentTooLong},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := tt.form
			ok := f.ValidateField(tt.field)
			if ok != (tt.want == "") {
				t.Fatalf("expected valid=%v, got %v", tt.want == "", ok)
			}
			if got := f.FieldError(tt.field); got != tt.want {
				t.Fatalf("expected error %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValuationForm_Request(t *testing.T) {
	f := &ValuationForm{Value: " 3800 ", Comment: "  Pudełko lekko zgniecione  "}
	if !f.Validate() {
		t.Fatalf("expected valid form, got errors %v", f.FieldErrors())
	}

	req := f.Request()
	if req.Value != 3800 {
		t.Fatalf("expected value 3800, got %d", req.Value)
	}
	if req.Comment != "Pudełko lekko zgniecione" {
		t.Fatalf("expected trimmed comment, got %q", req.Comment)
	}
	if req.Currency != "" {
		t.Fatalf("expected server default currency, got %q", req.Currency)
	}
}
