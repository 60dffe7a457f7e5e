package raw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_PrefixAndTrim(t *testing.T) {
	t.Setenv("LOG_SERVICE", " impact-api ")
	log := New().Prefix("LOG_")

	assert.Equal(t, "impact-api", log.Get("SERVICE", "x"))
	assert.Equal(t, "console", log.Get("FORMAT", "console"))
	assert.Equal(t, "impact-api", New().Get("LOG_SERVICE", ""))
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("RAWB_")
	cases := map[string]bool{"true": true, "1": true, " YES ": true, "false": false, "0": false, "maybe": false}
	for v, want := range cases {
		t.Setenv("RAWB_CALLER", v)
		assert.Equal(t, want, c.GetBool("CALLER", !want), v)
	}
	assert.True(t, c.GetBool("UNSET", true))
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("RAWI_")
	t.Setenv("RAWI_SAMPLE_EVERY", " 10 ")
	t.Setenv("RAWI_NEG", "-3")
	t.Setenv("RAWI_JUNK", "12x")

	assert.Equal(t, 10, c.GetInt("SAMPLE_EVERY", 0))
	assert.Equal(t, 7, c.GetInt("NEG", 7))
	assert.Equal(t, 7, c.GetInt("JUNK", 7))
	assert.Equal(t, 7, c.GetInt("UNSET", 7))
}

func TestGetFields(t *testing.T) {
	c := New().Prefix("RAWF_")
	assert.Nil(t, c.GetFields("FIELDS"))

	t.Setenv("RAWF_FIELDS", "env=prod, region = eu-west-1,=dropped,flag")
	assert.Equal(t, map[string]string{"env": "prod", "region": "eu-west-1", "flag": ""}, c.GetFields("FIELDS"))
}
