package avatar

import (
	"github.com/AbhiramValmeekam/adam-project/pkg/provider/image"
	"github.com/AbhiramValmeekam/adam-project/pkg/types"
)

// Facial expressions the avatar rig understands.
const (
	ExpressionSmile     = "smile"
	ExpressionSad       = "sad"
	ExpressionAngry     = "angry"
	ExpressionSurprised = "surprised"
	ExpressionFunnyFace = "funnyFace"
	ExpressionDefault   = "default"
)

// Body animations the avatar rig understands.
const (
	AnimationIdle                = "Idle"
	AnimationTalkingOne          = "TalkingOne"
	AnimationTalkingThree        = "TalkingThree"
	AnimationSadIdle             = "SadIdle"
	AnimationDefeated            = "Defeated"
	AnimationAngry               = "Angry"
	AnimationSurprised           = "Surprised"
	AnimationDismissingGesture   = "DismissingGesture"
	AnimationThoughtfulHeadShake = "ThoughtfulHeadShake"
)

var expressions = map[string]bool{
	ExpressionSmile:     true,
	ExpressionSad:       true,
	ExpressionAngry:     true,
	ExpressionSurprised: true,
	ExpressionFunnyFace: true,
	ExpressionDefault:   true,
}

var animations = map[string]bool{
	AnimationIdle:                true,
	AnimationTalkingOne:          true,
	AnimationTalkingThree:        true,
	AnimationSadIdle:             true,
	AnimationDefeated:            true,
	AnimationAngry:               true,
	AnimationSurprised:           true,
	AnimationDismissingGesture:   true,
	AnimationThoughtfulHeadShake: true,
}

// MaxMessages caps the number of spoken segments per reply.
const MaxMessages = 3

// Message is one spoken segment of an avatar reply. Audio and LipSync are
// filled in by the speech assembler.
type Message struct {
	Text             string         `json:"text"`
	FacialExpression string         `json:"facialExpression"`
	Animation        string         `json:"animation"`
	Audio            string         `json:"audio,omitempty"`
	LipSync          *types.LipSync `json:"lipsync,omitempty"`
}

// Normalize replaces an unknown expression with "default" and an unknown
// animation with "TalkingOne".
func (m *Message) Normalize() {
	if !expressions[m.FacialExpression] {
		m.FacialExpression = ExpressionDefault
	}
	if !animations[m.Animation] {
		m.Animation = AnimationTalkingOne
	}
}

// Outcome classifies how a reply was produced.
type Outcome string

const (
	// OutcomeOK is a parsed model reply.
	OutcomeOK Outcome = "ok"

	// OutcomeLanguageFallback is a parsed reply whose first message was
	// replaced because it lacked the requested script.
	OutcomeLanguageFallback Outcome = "language_fallback"

	// OutcomeUnparsed is a reply that was not valid JSON and is spoken verbatim.
	OutcomeUnparsed Outcome = "unparsed"

	// OutcomeIntro is the canned greeting for an empty question.
	OutcomeIntro Outcome = "intro"

	// OutcomeQuota is the canned reply for an exhausted model quota.
	OutcomeQuota Outcome = "quota"

	// OutcomeError is the canned reply for any other model failure.
	OutcomeError Outcome = "error"
)

// Cacheable reports whether a reply with this outcome may be served again
// for the same question.
func (o Outcome) Cacheable() bool {
	switch o {
	case OutcomeOK, OutcomeLanguageFallback, OutcomeUnparsed:
		return true
	default:
		return false
	}
}

// Response is the full reply sent to the browser.
type Response struct {
	Messages []Message          `json:"messages"`
	Images   []image.Descriptor `json:"images,omitempty"`

	// Outcome is not serialized.
	Outcome Outcome `json:"-"`
}

// Text joins the message texts with a single space.
func (r *Response) Text() string { return joinTexts(r.Messages) }

// ── Canned replies ──────────────────────────────────────────────────────────

// DefaultGreeting is spoken when the model returns nothing usable.
const DefaultGreeting = "Hello! I'm your AI assistant, ready to help with any topic you'd like to discuss."

// IntroMessages is the greeting for an empty question.
func IntroMessages() []Message {
	return []Message{
		{
			Text:             "Hello! I'm your AI assistant. What would you like to discuss today?",
			FacialExpression: ExpressionSmile,
			Animation:        AnimationTalkingOne,
		},
		{
			Text:             "I can help with any topic - science, history, literature, mathematics, or anything else you're curious about.",
			FacialExpression: ExpressionDefault,
			Animation:        AnimationTalkingOne,
		},
	}
}

// QuotaMessages is the reply when the model's quota is exhausted.
func QuotaMessages() []Message {
	return []Message{
		{
			Text:             "I'm experiencing high demand right now. Please try again in a few minutes.",
			FacialExpression: ExpressionSad,
			Animation:        AnimationSadIdle,
		},
		{
			Text:             "My AI quota is temporarily exhausted. Please check back soon!",
			FacialExpression: ExpressionDefault,
			Animation:        AnimationIdle,
		},
	}
}

// ErrorMessages is the reply when the model fails for any other reason.
func ErrorMessages() []Message {
	return []Message{
		{
			Text:             "I'm sorry, there seems to be an error. Could you please repeat your question?",
			FacialExpression: ExpressionSad,
			Animation:        AnimationIdle,
		},
	}
}
