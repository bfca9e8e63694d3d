package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseIsForeclosure(t *testing.T) {
	assert.True(t, (&Case{CaseType: "foreclosure"}).IsForeclosure())
	assert.True(t, (&Case{CaseType: "Foreclosure"}).IsForeclosure())
	assert.True(t, (&Case{CaseType: "FORECLOSURE"}).IsForeclosure())
	assert.False(t, (&Case{CaseType: "civil"}).IsForeclosure())
	assert.False(t, (&Case{CaseType: "foreclosures"}).IsForeclosure())
	assert.False(t, (&Case{}).IsForeclosure())
}

func TestIsKnownCaseStatus(t *testing.T) {
	assert.True(t, IsKnownCaseStatus(CaseStatusActive))
	assert.True(t, IsKnownCaseStatus(CaseStatusPending))
	assert.True(t, IsKnownCaseStatus(CaseStatusClosed))
	assert.False(t, IsKnownCaseStatus("Active"))
	assert.False(t, IsKnownCaseStatus("on appeal"))
	assert.False(t, IsKnownCaseStatus(""))
}
