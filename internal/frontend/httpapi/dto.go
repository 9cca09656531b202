package httpapi

import (
	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/locale"
	"github.com/cory-johannsen/fortune/internal/game/widget"
)

// AnimationPlan lets a client replay the server-side animation.
type AnimationPlan struct {
	SessionID      string  `json:"session_id"`
	StartRotation  float64 `json:"start_rotation"`
	TargetRotation float64 `json:"target_rotation"`
	DurationMS     int64   `json:"duration_ms"`
	Turns          int     `json:"turns"`
}

func planOf(s animation.Session) AnimationPlan {
	return AnimationPlan{
		SessionID:      s.ID.String(),
		StartRotation:  s.Start,
		TargetRotation: s.Target,
		DurationMS:     s.Duration.Milliseconds(),
		Turns:          s.Turns,
	}
}

// SpinResponse is returned by POST /wheel/spin.
type SpinResponse struct {
	Animation AnimationPlan `json:"animation"`
	Index     int           `json:"index"`
	Label     string        `json:"label"`
	Options   []string      `json:"options"`
}

// FlipResponse is returned by POST /coin/flip.
type FlipResponse struct {
	Animation AnimationPlan `json:"animation"`
	Face      string        `json:"face"`
	Label     string        `json:"label"`
}

// NumberRequest is the body of POST /number.
type NumberRequest struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// NumberResponse is returned by POST /number.
type NumberResponse struct {
	Value int `json:"value"`
}

// OptionRequest is the body of POST /wheel/options.
type OptionRequest struct {
	Label string `json:"label"`
}

// LanguageRequest is the body of PUT /language.
type LanguageRequest struct {
	Code string `json:"code"`
}

// WheelState is the wheel part of DeskResponse.
type WheelState struct {
	Options      []string `json:"options"`
	OptionsCount string   `json:"options_count"`
	Rotation     float64  `json:"rotation"`
	Spinning     bool     `json:"spinning"`
	Result       *string  `json:"result"`
	LastSelected *int     `json:"last_selected"`
}

// CoinState is the coin part of DeskResponse.
type CoinState struct {
	Face     string  `json:"face"`
	Rotation float64 `json:"rotation"`
	Flipping bool    `json:"flipping"`
	Result   *string `json:"result"`
}

// NumberState is the generator part of DeskResponse.
type NumberState struct {
	Value   *int `json:"value"`
	Invalid bool `json:"invalid"`
}

// DeskResponse is a snapshot of one profile's desk.
type DeskResponse struct {
	Profile  string      `json:"profile"`
	Language string      `json:"language"`
	Wheel    WheelState  `json:"wheel"`
	Coin     CoinState   `json:"coin"`
	Number   NumberState `json:"number"`
}

// LocaleSummary is one entry of GET /locales.
type LocaleSummary struct {
	Code string `json:"code"`
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func deskOf(profile string, d *widget.Desk) DeskResponse {
	loc := d.Locale()
	wv, cv, nv := d.Wheel.View(), d.Coin.View(), d.Number.View()

	out := DeskResponse{
		Profile:  profile,
		Language: wv.Language,
		Wheel: WheelState{
			Options:      wv.Labels,
			OptionsCount: loc.OptionsCount(len(wv.Labels)),
			Rotation:     wv.Rotation,
			Spinning:     wv.State == animation.Running,
		},
		Coin: CoinState{
			Face:     faceName(cv.Face),
			Rotation: cv.Rotation,
			Flipping: cv.State == animation.Running,
		},
		Number: NumberState{Invalid: nv.Invalid},
	}
	if wv.HasResult {
		out.Wheel.Result = &wv.Result
	}
	if wv.LastSelected >= 0 {
		out.Wheel.LastSelected = &wv.LastSelected
	}
	if cv.HasResult {
		out.Coin.Result = &cv.Result
	}
	if nv.HasValue {
		out.Number.Value = &nv.Value
	}
	return out
}

func summaryOf(l *locale.Locale) LocaleSummary {
	return LocaleSummary{Code: l.Code, Tag: l.Tag, Name: l.Name}
}
