package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
)

func assertField(t *testing.T, err error, kind apperr.Kind, field string) {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, field, appErr.Field)
}

func TestParseNewComment(t *testing.T) {
	got, err := ParseNewComment([]byte(`{"username":"butter_bridge","body":"nice"}`))
	require.NoError(t, err)
	assert.Equal(t, NewComment{Username: "butter_bridge", Body: "nice"}, got)

	tests := []struct {
		name  string
		body  string
		kind  apperr.Kind
		field string
	}{
		{"missing body", `{"username":"butter_bridge"}`, apperr.MissingField, "body"},
		{"empty username", `{"username":"","body":"x"}`, apperr.MissingField, "username"},
		{"null body", `{"username":"u","body":null}`, apperr.MissingField, "body"},
		{"numeric body", `{"username":"u","body":5}`, apperr.InvalidFormat, "body"},
		{"missing wins over format", `{"username":7}`, apperr.MissingField, "body"},
		{"not an object", `["a"]`, apperr.InvalidFormat, ""},
		{"not json", `nope`, apperr.InvalidFormat, ""},
		{"null", `null`, apperr.InvalidFormat, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNewComment([]byte(tt.body))
			assertField(t, err, tt.kind, tt.field)
		})
	}
}

func TestParseNewArticle(t *testing.T) {
	got, err := ParseNewArticle([]byte(`{"author":"icellusedkars","title":"t","body":"b","topic":"mitch"}`))
	require.NoError(t, err)
	assert.Nil(t, got.ArticleImgURL)
	assert.Equal(t, "mitch", got.Topic)

	got, err = ParseNewArticle([]byte(`{"author":"a","title":"t","body":"b","topic":"cats","article_img_url":"http://img"}`))
	require.NoError(t, err)
	require.NotNil(t, got.ArticleImgURL)
	assert.Equal(t, "http://img", *got.ArticleImgURL)

	_, err = ParseNewArticle([]byte(`{"author":"a","body":"b","topic":"cats"}`))
	assertField(t, err, apperr.MissingField, "title")

	_, err = ParseNewArticle([]byte(`{"author":"a","title":"t","body":"b","topic":"cats","article_img_url":3}`))
	assertField(t, err, apperr.InvalidFormat, "article_img_url")
}

func TestParseNewTopic(t *testing.T) {
	got, err := ParseNewTopic([]byte(`{"slug":"dogs","description":"woof"}`))
	require.NoError(t, err)
	assert.Equal(t, NewTopic{Slug: "dogs", Description: "woof"}, got)

	_, err = ParseNewTopic([]byte(`{"slug":"dogs"}`))
	assertField(t, err, apperr.MissingField, "description")

	_, err = ParseNewTopic([]byte(`{"slug":true,"description":"d"}`))
	assertField(t, err, apperr.InvalidFormat, "slug")
}

func TestParseVoteIncrement(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		kind    apperr.Kind
		wantErr bool
	}{
		{name: "positive", body: `{"inc_votes":1}`, want: 1},
		{name: "negative", body: `{"inc_votes":-100}`, want: -100},
		{name: "zero is valid", body: `{"inc_votes":0}`, want: 0},
		{name: "absent", body: `{}`, kind: apperr.MissingField, wantErr: true},
		{name: "null", body: `{"inc_votes":null}`, kind: apperr.MissingField, wantErr: true},
		{name: "string", body: `{"inc_votes":"x"}`, kind: apperr.InvalidFormat, wantErr: true},
		{name: "fraction", body: `{"inc_votes":1.5}`, kind: apperr.InvalidFormat, wantErr: true},
		{name: "overflow", body: `{"inc_votes":9999999999}`, kind: apperr.InvalidFormat, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVoteIncrement([]byte(tt.body))
			if tt.wantErr {
				assertField(t, err, tt.kind, "inc_votes")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Inc)
		})
	}
}
