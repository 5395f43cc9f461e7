package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-reconcile/internal/model"
)

func TestObjectSelection(t *testing.T) {
	object, sel, err := objectSelection("contacts")
	require.NoError(t, err)
	assert.Equal(t, model.ObjectContact, object)
	assert.True(t, sel.Contacts)
	assert.False(t, sel.Deals)

	object, sel, err = objectSelection("companies")
	require.NoError(t, err)
	assert.Equal(t, model.ObjectCompany, object)
	assert.True(t, sel.Companies)

	object, sel, err = objectSelection("deals")
	require.NoError(t, err)
	assert.Equal(t, model.ObjectDeal, object)
	assert.True(t, sel.Deals)

	_, _, err = objectSelection("tickets")
	assert.Error(t, err)
}
