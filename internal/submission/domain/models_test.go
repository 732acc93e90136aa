package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// MySQL cannot put a default on a TEXT column, so the policy column is sized.
func TestSubmissionPolicyColumnIsSized(t *testing.T) {
	s, err := schema.Parse(&Submission{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("policy")
	require.NotNil(t, field)
	assert.Equal(t, "varchar(64)", field.TagSettings["TYPE"])
	assert.Equal(t, schema.DataType("varchar(64)"), field.DataType)
	assert.Equal(t, "'standard'", field.DefaultValue)
}
