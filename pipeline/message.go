// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"znkr.io/apiview"
	"znkr.io/apiview/internal/config"
)

// ErrFault is returned when a unit reports a fault for a pass.
var ErrFault = errors.New("pipeline fault")

// Kind is the kind of a message.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Kind -trimprefix=Kind
type Kind int

const (
	// Inbound messages.
	KindConfig   Kind = iota // Settings
	KindPayload              // Code panel payload as JSON, not msgpack
	KindRerender             // A payload echoed by KindParsed
	KindTrees                // Trees to compare

	// Outbound messages, one of each per pass or a single KindFault.
	KindRows         // []codepanel.Row
	KindNavigation   // []*linearize.NavigationNode
	KindHasHiddenAPI // bool
	KindParsed       // *codepanel.Data
	KindFault        // Fault

	// Token diff channel.
	KindTokenDiff      // codepanel.TokenDiffRequest
	KindTokenDiffReply // []codepanel.TokenDiffRecord
)

// Message is the unit of communication between units. The body is msgpack encoded, every
// message therefore carries its own copy of the data.
type Message struct {
	Kind   Kind
	PassID string
	Seq    int // Correlates token diff requests and replies
	Body   []byte
}

// NewMessage encodes v as the body of a new message.
func NewMessage(kind Kind, passID string, v any) (Message, error) {
	body, err := encode(v)
	if err != nil {
		return Message{}, fmt.Errorf("encoding %v message: %w", kind, err)
	}
	return Message{Kind: kind, PassID: passID, Body: body}, nil
}

// Decode decodes the body of m into v.
func (m Message) Decode(v any) error {
	if err := decode(m.Body, v); err != nil {
		return fmt.Errorf("decoding %v message: %w", m.Kind, err)
	}
	return nil
}

// Bodies use the json field names so that they read like the JSON payloads.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// Settings is the body of a KindConfig message.
type Settings struct {
	DiffStyle          string `json:"diffStyle"`
	ShowDocumentation  bool   `json:"showDocumentation"`
	ShowComments       bool   `json:"showComments"`
	ShowSystemComments bool   `json:"showSystemComments"`
	ShowHiddenAPIs     bool   `json:"showHiddenApis"`
}

// DefaultSettings returns the settings used before a unit receives a KindConfig message.
func DefaultSettings() Settings {
	return Settings{
		DiffStyle:          config.Default.Style.String(),
		ShowDocumentation:  config.Default.ShowDocumentation,
		ShowComments:       config.Default.ShowComments,
		ShowSystemComments: config.Default.ShowSystemComments,
		ShowHiddenAPIs:     config.Default.ShowHiddenAPIs,
	}
}

// Options converts s into linearizer options. An empty diff style selects the default.
func (s Settings) Options() ([]apiview.Option, error) {
	opts := []apiview.Option{
		apiview.ShowDocumentation(s.ShowDocumentation),
		apiview.ShowComments(s.ShowComments),
		apiview.ShowSystemComments(s.ShowSystemComments),
		apiview.ShowHiddenAPIs(s.ShowHiddenAPIs),
	}
	if s.DiffStyle != "" {
		style, err := apiview.ParseDiffStyle(s.DiffStyle)
		if err != nil {
			return nil, err
		}
		opts = append(opts, apiview.Style(style))
	}
	return opts, nil
}

// Fault is the body of a KindFault message.
type Fault struct {
	Unit  string `json:"unit"`
	Error string `json:"error"`
}

func (f Fault) err() error {
	return fmt.Errorf("%w: %s: %s", ErrFault, f.Unit, f.Error)
}
