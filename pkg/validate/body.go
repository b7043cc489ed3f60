package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
)

// NewComment is a validated comment creation request.
type NewComment struct {
	Username string
	Body     string
}

// NewArticle is a validated article creation request.
type NewArticle struct {
	Author        string
	Title         string
	Body          string
	Topic         string
	ArticleImgURL *string
}

// NewTopic is a validated topic creation request.
type NewTopic struct {
	Slug        string
	Description string
	ImgURL      *string
}

// VoteIncrement is a validated vote change. Inc may be zero or negative.
type VoteIncrement struct {
	Inc int
}

var errNotObject = errors.New("body must be a JSON object")

// object is a decoded JSON request body.
type object map[string]interface{}

// decodeObject decodes raw as a JSON object, keeping numbers as json.Number
// so integral values can be told apart from fractional ones.
func decodeObject(raw []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, apperr.Format("", err)
	}
	if obj == nil {
		return nil, apperr.Format("", errNotObject)
	}
	return obj, nil
}

// requireFields reports the first of fields, in order, that is absent or
// holds a zero value ("", 0, false, null).
func (o object) requireFields(fields ...string) error {
	rules := make(map[string]interface{}, len(fields))
	data := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		rules[f] = "required"
		data[f] = normalize(o[f])
	}

	failures := validate.ValidateMap(data, rules)
	for _, f := range fields {
		if _, failed := failures[f]; failed {
			return apperr.Missing(f)
		}
	}
	return nil
}

// normalize converts json.Number into float64 so zero counts as empty.
func normalize(v interface{}) interface{} {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return v
		}
		return f
	}
	return v
}

func (o object) str(field string) (string, error) {
	s, ok := o[field].(string)
	if !ok {
		return "", apperr.Format(field, fmt.Errorf("%s must be a string", field))
	}
	return s, nil
}

func (o object) optionalStr(field string) (*string, error) {
	v, present := o[field]
	if !present || v == nil {
		return nil, nil
	}
	s, err := o.str(field)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseNewComment validates a comment creation body.
func ParseNewComment(raw []byte) (NewComment, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return NewComment{}, err
	}
	if err := obj.requireFields("username", "body"); err != nil {
		return NewComment{}, err
	}

	var c NewComment
	if c.Username, err = obj.str("username"); err != nil {
		return NewComment{}, err
	}
	if c.Body, err = obj.str("body"); err != nil {
		return NewComment{}, err
	}
	return c, nil
}

// ParseNewArticle validates an article creation body.
func ParseNewArticle(raw []byte) (NewArticle, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return NewArticle{}, err
	}
	if err := obj.requireFields("author", "title", "body", "topic"); err != nil {
		return NewArticle{}, err
	}

	var a NewArticle
	if a.Author, err = obj.str("author"); err != nil {
		return NewArticle{}, err
	}
	if a.Title, err = obj.str("title"); err != nil {
		return NewArticle{}, err
	}
	if a.Body, err = obj.str("body"); err != nil {
		return NewArticle{}, err
	}
	if a.Topic, err = obj.str("topic"); err != nil {
		return NewArticle{}, err
	}
	if a.ArticleImgURL, err = obj.optionalStr("article_img_url"); err != nil {
		return NewArticle{}, err
	}
	return a, nil
}

// ParseNewTopic validates a topic creation body.
func ParseNewTopic(raw []byte) (NewTopic, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return NewTopic{}, err
	}
	if err := obj.requireFields("slug", "description"); err != nil {
		return NewTopic{}, err
	}

	var t NewTopic
	if t.Slug, err = obj.str("slug"); err != nil {
		return NewTopic{}, err
	}
	if t.Description, err = obj.str("description"); err != nil {
		return NewTopic{}, err
	}
	if t.ImgURL, err = obj.optionalStr("img_url"); err != nil {
		return NewTopic{}, err
	}
	return t, nil
}

// ParseVoteIncrement validates a vote change body. inc_votes must be an
// integral JSON number; zero is accepted.
func ParseVoteIncrement(raw []byte) (VoteIncrement, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return VoteIncrement{}, err
	}

	v, present := obj["inc_votes"]
	if !present || v == nil {
		return VoteIncrement{}, apperr.Missing("inc_votes")
	}

	n, ok := v.(json.Number)
	if !ok {
		return VoteIncrement{}, apperr.Format("inc_votes", errors.New("inc_votes must be a number"))
	}
	inc, err := n.Int64()
	if err != nil {
		return VoteIncrement{}, apperr.Format("inc_votes", err)
	}
	if inc != int64(int32(inc)) {
		return VoteIncrement{}, apperr.Format("inc_votes", fmt.Errorf("inc_votes %d out of range", inc))
	}
	return VoteIncrement{Inc: int(inc)}, nil
}
