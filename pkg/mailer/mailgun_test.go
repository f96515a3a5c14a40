package mailer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailgun_Send(t *testing.T) {
	var gotTo, gotSubject, gotHTML string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/mg.test/messages"), r.URL.Path)
		gotTo = r.FormValue("to")
		gotSubject = r.FormValue("subject")
		gotHTML = r.FormValue("html")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<1@mg.test>","message":"Queued. Thank you."}`))
	}))
	defer srv.Close()

	m := NewMailgun("mg.test", "key-test", "Hireboard <no-reply@mg.test>").WithAPIBase(srv.URL + "/v3")
	err := m.Send(context.Background(), "jane@x.com", "Welcome", "hi", "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", gotTo)
	assert.Equal(t, "Welcome", gotSubject)
	assert.Equal(t, "<p>hi</p>", gotHTML)
}

func TestMailgun_SendRejectsEmptyRecipient(t *testing.T) {
	assert.Error(t, NewMailgun("mg.test", "key", "x@mg.test").Send(context.Background(), "", "s", "t", ""))
}
