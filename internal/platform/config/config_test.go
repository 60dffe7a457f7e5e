package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"impactlog/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	api := New().Prefix("CORE_").Prefix("API_")
	assert.Equal(t, "CORE_API_PORT", api.Key("PORT"))

	t.Setenv("CORE_API_PORT", " 8080 ")
	assert.Equal(t, 8080, api.MayInt("PORT", 4000))
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("CFGT_")
	t.Setenv("CFGT_NAME", " impact-api ")
	t.Setenv("CFGT_WORKERS", "8")
	t.Setenv("CFGT_RATE", "72.5")
	t.Setenv("CFGT_SWAGGER", "true")
	t.Setenv("CFGT_TIMEOUT", "250ms")
	t.Setenv("CFGT_BAD", "lots")

	assert.Equal(t, "impact-api", c.MayString("NAME", "x"))
	assert.Equal(t, "x", c.MayString("MISSING", "x"))

	assert.Equal(t, 8, c.MayInt("WORKERS", 1))
	assert.Equal(t, 1, c.MayInt("BAD", 1))

	assert.InDelta(t, 72.5, c.MayFloat64("RATE", 50), 1e-9)
	assert.InDelta(t, 50.0, c.MayFloat64("BAD", 50), 1e-9)

	assert.True(t, c.MayBool("SWAGGER", false))
	assert.True(t, c.MayBool("BAD", true))
	assert.False(t, c.MayBool("MISSING", false))

	assert.Equal(t, 250*time.Millisecond, c.MayDuration("TIMEOUT", time.Second))
	assert.Equal(t, time.Minute, c.MayDuration("BAD", time.Minute))
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSVT_")
	assert.Equal(t, []string{"a"}, c.MayCSV("MISSING", []string{"a"}))

	t.Setenv("CSVT_ORIGINS", " https://a.example, ,https://b.example ,, ")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.MayCSV("ORIGINS", nil))

	t.Setenv("CSVT_BLANK", " , ,")
	assert.Equal(t, []string{"fallback"}, c.MayCSV("BLANK", []string{"fallback"}))
}

func TestMayKV(t *testing.T) {
	c := New().Prefix("KVT_")
	def := map[string]string{"Zapier": "20"}
	assert.Equal(t, def, c.MayKV("MISSING", def))

	t.Setenv("KVT_COSTS", " Zapier = 20 , Jira=7.5, broken, =3 ")
	assert.Equal(t, map[string]string{"Zapier": "20", "Jira": "7.5"}, c.MayKV("COSTS", nil))

	t.Setenv("KVT_BAD", "nope,=1")
	assert.Equal(t, def, c.MayKV("BAD", def))
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("ENUMT_")
	assert.Equal(t, "week", c.MayEnum("MISSING", "week", "day", "week"))
	assert.Empty(t, c.MayEnum("MISSING", "", "day", "week"))

	t.Setenv("ENUMT_BUCKET", "Day")
	assert.Equal(t, "Day", c.MayEnum("BUCKET", "week", "day", "week"))

	t.Setenv("ENUMT_BAD", "month")
	testkit.MustPanic(t, func() { c.MayEnum("BAD", "week", "day", "week") })
}
