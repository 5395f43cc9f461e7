package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/crm-reconcile/internal/model"
)

func TestRunFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/runs?status=complete&kind=analyze&limit=10", nil)
	f := runFilterFromQuery(r)

	assert.Equal(t, model.RunStatusComplete, f.Status)
	assert.Equal(t, "analyze", f.Kind)
	assert.Equal(t, 10, f.Limit)
}

func TestRunFilterFromQuery_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/runs", nil)
	f := runFilterFromQuery(r)

	assert.Empty(t, f.Status)
	assert.Empty(t, f.Kind)
	assert.Zero(t, f.Limit)
}

func TestRunFilterFromQuery_BadLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/runs?limit=abc", nil)
	f := runFilterFromQuery(r)
	assert.Zero(t, f.Limit)

	r = httptest.NewRequest("GET", "/runs?limit=-5", nil)
	f = runFilterFromQuery(r)
	assert.Zero(t, f.Limit)
}
