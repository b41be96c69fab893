package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorExtend(t *testing.T) {
	verr := invalid("price", "not a price")
	verr.Extend(&ValidationError{Fields: []FieldError{
		{Field: "price", Message: "is required"},
		{Field: "name", Message: "is required"},
	}})
	verr.Extend(nil)

	assert.Equal(t, []FieldError{
		{Field: "price", Message: "not a price"},
		{Field: "name", Message: "is required"},
	}, verr.Fields)
}
