package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type testRequest struct {
	Fname  string   `json:"fname" validate:"required"`
	Amount *float64 `json:"amount" validate:"required"`
	Lname  string   `json:"lname" validate:"max=5"`
}

func TestValidateRequest(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name       string
		req        testRequest
		wantFields []string
	}{
		{name: "valid", req: testRequest{Fname: "Harvey", Amount: &zero}},
		{name: "missing both", req: testRequest{}, wantFields: []string{"Fname", "Amount"}},
		{name: "missing amount", req: testRequest{Fname: "Harvey"}, wantFields: []string{"Amount"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateRequest(tt.req)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("expected %d errors, got %+v", len(tt.wantFields), got)
			}
			for i, field := range tt.wantFields {
				if got[i].Field != field || got[i].Type != "required" {
					t.Errorf("error %d: expected required on %s, got %+v", i, field, got[i])
				}
				if got[i].Message != "This field is required" {
					t.Errorf("error %d: unexpected message %q", i, got[i].Message)
				}
			}
		})
	}
}

func TestValidateRequestTooLong(t *testing.T) {
	amount := 1.0
	got := ValidateRequest(testRequest{Fname: "Harvey", Amount: &amount, Lname: "Steve Joe"})
	if len(got) != 1 {
		t.Fatalf("expected 1 error, got %+v", got)
	}
	if got[0].Field != "Lname" || got[0].Type != "max" || got[0].Message != "Value is too long" {
		t.Errorf("unexpected error %+v", got[0])
	}
}

func TestRespondWithValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationError(c, []ValidationError{{Field: "Fname", Message: "This field is required", Type: "required"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body BadRequestErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Invalid request data" || len(body.Details) != 1 {
		t.Errorf("unexpected body: %+v", body)
	}
}
