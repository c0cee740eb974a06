package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/tests"
)

func TestParseEmailTemplates(t *testing.T) {
	testutil.ParseTemplates()

	// partials are not templates on their own
	assert.Equal(t, []string{"feedback_instructor", "feedback_participant"}, core.TemplateNames())
}

func TestEmailMessage_Render_bodyStr(t *testing.T) {
	m := &core.EmailMessage{Subject: "hi", BodyStr: "plain body"}
	require.NoError(t, m.Render())
	assert.Equal(t, "plain body", m.TextContent)
	assert.Empty(t, m.HTMLContent)
	assert.True(t, m.HasContent())
	assert.False(t, m.HasRecipients())
}
