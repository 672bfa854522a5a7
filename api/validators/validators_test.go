package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
)

type sampleBody struct {
	Title string `json:"title" validate:"required,max=10"`
	Ward  int    `json:"ward" validate:"gte=1,lte=25"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"Road","ward":7}`))
		var body sampleBody
		require.NoError(t, DecodeJSONBody(req, &body))
		assert.Equal(t, "Road", body.Title)
		assert.Equal(t, 7, body.Ward)
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"Road","ward":7,"extra":true}`))
		var body sampleBody
		err := DecodeJSONBody(req, &body)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})

	t.Run("validation details use json names", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"ward":30}`))
		var body sampleBody
		err := DecodeJSONBody(req, &body)
		require.Error(t, err)
		details, ok := pkgerrors.As(err).Details().(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "is required", details["title"])
		assert.Equal(t, "must be less than or equal to 25", details["ward"])
	})

	cases := map[string]struct {
		body  string
		field string
		want  string
	}{
		"empty":         {"", "body", "is required"},
		"unknown field": {`{"title":"Road","ward":7,"extra":true}`, "extra", "is not allowed"},
		"wrong type":    {`{"title":"Road","ward":"seven"}`, "ward", "must be a int"},
		"trailing data": {`{"title":"Road","ward":7}{}`, "body", "must contain a single JSON object"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			var body sampleBody
			err := DecodeJSONBody(req, &body)
			require.Error(t, err)
			details, ok := pkgerrors.As(err).Details().(map[string]string)
			require.True(t, ok, "details %T", pkgerrors.As(err).Details())
			assert.Equal(t, tc.want, details[tc.field])
		})
	}

	t.Run("oversized", func(t *testing.T) {
		big := `{"title":"` + strings.Repeat("a", MaxJSONBodyBytes) + `","ward":1}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(big))
		var body sampleBody
		err := DecodeJSONBody(req, &body)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	})
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?ward=12&bad=x&big=99", nil)

	v, err := ParseQueryInt(req, "ward", 0, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = ParseQueryInt(req, "missing", 5, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = ParseQueryInt(req, "bad", 0, 1, 25)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseQueryInt(req, "big", 0, 1, 25)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseOptionalQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/?ward=3&status=+solved+", nil)

	ward, err := ParseOptionalQueryInt(req, "ward", 1, 25)
	require.NoError(t, err)
	require.NotNil(t, ward)
	assert.Equal(t, 3, *ward)

	none, err := ParseOptionalQueryInt(req, "category", 1, 25)
	require.NoError(t, err)
	assert.Nil(t, none)

	status := ParseOptionalQueryString(req, "status")
	require.NotNil(t, status)
	assert.Equal(t, "solved", *status)
	assert.Nil(t, ParseOptionalQueryString(req, "category"))
}

func TestParseUUID(t *testing.T) {
	_, err := ParseUUID("not-a-uuid", "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	id, err := ParseUUID(" 2f1b5a8e-8c36-4c55-9a43-0c3d7d1f5e10 ", "id")
	require.NoError(t, err)
	assert.Equal(t, "2f1b5a8e-8c36-4c55-9a43-0c3d7d1f5e10", id.String())
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"empty":        {header: "", ok: false},
		"no scheme":    {header: "abc", ok: false},
		"basic scheme": {header: "Basic abc", ok: false},
		"blank token":  {header: "Bearer   ", ok: false},
		"bearer":       {header: "Bearer abc.def", token: "abc.def", ok: true},
		"lowercase":    {header: "bearer abc", token: "abc", ok: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  ", 0))
	assert.Equal(t, "hel", SanitizeString("hello", 3))
	assert.Equal(t, "জল", SanitizeString("জলের", 2))
}
