package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/speechkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"data/train", false},
		{"", true},
		{"   ", true},
	}
	for _, tt := range tests {
		if got := New().Required("data_dir", tt.value).HasErrors(); got != tt.wantErr {
			t.Errorf("Required(%q) errors = %v, want %v", tt.value, got, tt.wantErr)
		}
	}
}

func TestValidatorNumbers(t *testing.T) {
	v := New().
		Positive("batch_size", 0).
		NonNegative("label_delay", -1).
		Range("index", 5, 0, 4).
		Positive("workers", 2).
		NonNegative("prefetch", 0)

	errs := v.Errors()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	for i, field := range []string{"batch_size", "label_delay", "index"} {
		if errs[i].Field != field {
			t.Errorf("error %d is for %q, want %q", i, errs[i].Field, field)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	formats := []string{"json", "console"}
	if New().OneOf("format", "json", formats).HasErrors() {
		t.Error("expected json to be accepted")
	}
	if New().OneOf("format", "", formats).HasErrors() {
		t.Error("empty values are left to Required")
	}
	if !New().OneOf("format", "xml", formats).HasErrors() {
		t.Error("expected xml to be rejected")
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	if New().OptionalUUID("run_id", "").HasErrors() {
		t.Error("empty run id should be accepted")
	}
	if New().OptionalUUID("run_id", uuid.NewString()).HasErrors() {
		t.Error("valid run id should be accepted")
	}
	if !New().OptionalUUID("run_id", "run-1").HasErrors() {
		t.Error("expected invalid run id to be rejected")
	}
}

func TestValidatorErr(t *testing.T) {
	if err := New().Custom(true, "x", "never").Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	err := New().Custom(false, "chunk_size", "must fit in max_frames").Err()
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if !strings.Contains(err.Error(), "chunk_size: must fit in max_frames") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

type loaderSection struct {
	Workers   int `mapstructure:"workers" validate:"gte=1"`
	BatchSize int `mapstructure:"batch_size" validate:"gte=1,lte=512"`
}

type rootConfig struct {
	Name   string        `mapstructure:"name" validate:"required"`
	Loader loaderSection `mapstructure:"loader"`
}

func TestValidateStruct(t *testing.T) {
	if err := Validate(rootConfig{Name: "speechkit", Loader: loaderSection{Workers: 2, BatchSize: 8}}); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	err := Validate(rootConfig{Loader: loaderSection{Workers: 0, BatchSize: 1000}})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	fields, _ := appErr.Details["fields"].([]FieldError)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"name":              "is required",
		"loader.workers":    "must be at least 1",
		"loader.batch_size": "must be at most 512",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: got %q, want %q (all: %v)", field, got[field], msg, got)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("MaxFrames"); got != "max_frames" {
		t.Errorf("toSnakeCase = %q", got)
	}
}

func TestValidatorMerge(t *testing.T) {
	inner := New().Positive("dataset.step", 0).Err()
	v := New().
		Merge(nil).
		Merge(inner).
		Merge(stderrors.New("base.name is required"))

	errs := v.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Field != "dataset.step" {
		t.Errorf("merged field = %q, want dataset.step", errs[0].Field)
	}
	if errs[1].Field != "" || errs[1].Message != "base.name is required" {
		t.Errorf("unexpected foreign error entry %+v", errs[1])
	}
	if got := v.Err().Error(); !strings.Contains(got, "dataset.step: must be positive (got 0); base.name is required") {
		t.Errorf("unexpected message %q", got)
	}
}
