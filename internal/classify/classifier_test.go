// internal/classify/classifier_test.go
package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
)

func field(name, ftype, placeholder string) schemas.FieldDescriptor {
	return schemas.FieldDescriptor{Name: name, Type: ftype, Placeholder: placeholder}
}

func TestClassifyKeywordLadder(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name string
		form schemas.FormDescriptor
		want schemas.FormPurpose
	}{
		{
			name: "registration text wins",
			form: schemas.FormDescriptor{FormText: "Create your account today"},
			want: schemas.PurposeRegistration,
		},
		{
			name: "login text",
			form: schemas.FormDescriptor{FormText: "Welcome back! Enter your password"},
			want: schemas.PurposeLogin,
		},
		{
			name: "contact text",
			form: schemas.FormDescriptor{NearbyText: "Email us with your questions"},
			want: schemas.PurposeContact,
		},
		{
			name: "search text",
			form: schemas.FormDescriptor{FormText: "Search our catalog"},
			want: schemas.PurposeSearch,
		},
		{
			name: "newsletter text",
			form: schemas.FormDescriptor{FormText: "Subscribe to our newsletter"},
			want: schemas.PurposeSubscription,
		},
		{
			name: "registration outranks login when both match",
			form: schemas.FormDescriptor{FormText: "Sign up or log in"},
			want: schemas.PurposeRegistration,
		},
		{
			name: "no signals",
			form: schemas.FormDescriptor{FormText: "Quarterly report archive"},
			want: schemas.PurposeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.form)
			assert.Equal(t, tt.want, got.Purpose)
			if tt.want == schemas.PurposeUnknown {
				assert.Zero(t, got.Confidence)
			} else {
				assert.Equal(t, ConfidenceDirect, got.Confidence)
			}
		})
	}
}

func TestClassifyFieldHeuristics(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name string
		form schemas.FormDescriptor
		want schemas.FormPurpose
	}{
		{
			name: "create-a-password placeholder forces registration",
			form: schemas.FormDescriptor{Fields: []schemas.FieldDescriptor{
				field("", "password", "Create a password"),
			}},
			want: schemas.PurposeRegistration,
		},
		{
			name: "email plus password with confirm field is registration",
			form: schemas.FormDescriptor{Fields: []schemas.FieldDescriptor{
				field("email", "email", ""),
				field("password", "password", ""),
				field("password_confirm", "password", "Confirm password"),
			}},
			want: schemas.PurposeRegistration,
		},
		{
			name: "two-field email plus password is login",
			form: schemas.FormDescriptor{Fields: []schemas.FieldDescriptor{
				field("email", "email", ""),
				field("pwd", "password", ""),
			}},
			want: schemas.PurposeLogin,
		},
		{
			name: "three fields tip login into registration",
			form: schemas.FormDescriptor{Fields: []schemas.FieldDescriptor{
				field("email", "email", ""),
				field("pwd", "password", ""),
				field("ref", "hidden", ""),
			}},
			want: schemas.PurposeRegistration,
		},
		{
			name: "email without password and newsletter copy is subscription",
			form: schemas.FormDescriptor{
				FormText: "Get product updates",
				Fields:   []schemas.FieldDescriptor{field("email", "email", "")},
			},
			want: schemas.PurposeSubscription,
		},
		{
			name: "email alone without subscription copy stays unknown",
			form: schemas.FormDescriptor{Fields: []schemas.FieldDescriptor{
				field("email", "email", ""),
			}},
			want: schemas.PurposeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.form)
			assert.Equal(t, tt.want, got.Purpose)
		})
	}
}

type stubJudge struct {
	judgment schemas.Judgment
	err      error
	calls    int
}

func (s *stubJudge) Judge(_ context.Context, _ string) (schemas.Judgment, error) {
	s.calls++
	return s.judgment, s.err
}

func (s *stubJudge) AnalyzePage(_ context.Context, _ *schemas.PageSnapshot) (map[string]any, error) {
	return nil, nil
}

func TestClassifyWithOracle(t *testing.T) {
	unknownForm := schemas.FormDescriptor{FormText: "Quarterly report archive"}

	t.Run("oracle consulted only on unknown", func(t *testing.T) {
		j := &stubJudge{judgment: schemas.Judgment{Purpose: "contact", Confidence: 0.7}}
		c := NewClassifier(j, nil)

		res := c.ClassifyWithOracle(context.Background(), schemas.FormDescriptor{FormText: "sign up now"})
		assert.Equal(t, schemas.PurposeRegistration, res.Purpose)
		assert.Zero(t, j.calls)

		res = c.ClassifyWithOracle(context.Background(), unknownForm)
		require.Equal(t, 1, j.calls)
		assert.Equal(t, schemas.PurposeContact, res.Purpose)
		assert.Equal(t, 0.7, res.Confidence)
	})

	t.Run("label outside the closed set is discarded", func(t *testing.T) {
		j := &stubJudge{judgment: schemas.Judgment{Purpose: "payment", Confidence: 0.99}}
		c := NewClassifier(j, nil)
		res := c.ClassifyWithOracle(context.Background(), unknownForm)
		assert.Equal(t, schemas.PurposeUnknown, res.Purpose)
		assert.Zero(t, res.Confidence)
	})

	t.Run("oracle error keeps unknown", func(t *testing.T) {
		j := &stubJudge{err: errors.New("upstream 503")}
		c := NewClassifier(j, nil)
		res := c.ClassifyWithOracle(context.Background(), unknownForm)
		assert.Equal(t, schemas.PurposeUnknown, res.Purpose)
	})

	t.Run("nil judge keeps unknown", func(t *testing.T) {
		c := NewClassifier(nil, nil)
		res := c.ClassifyWithOracle(context.Background(), unknownForm)
		assert.Equal(t, schemas.PurposeUnknown, res.Purpose)
	})
}
