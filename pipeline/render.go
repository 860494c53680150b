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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zeebo/xxh3"
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/linearize"
)

// RenderUnit linearizes code panel payloads.
//
// It accepts KindConfig, KindPayload and KindRerender messages. For every payload it emits
// KindRows, KindNavigation, KindHasHiddenAPI and KindParsed messages, or a single KindFault
// message if the payload is malformed.
type RenderUnit struct {
	// Logger receives debug output. If nil, [slog.Default] is used.
	Logger *slog.Logger

	settings Settings

	// The last parsed payload. Repeated payloads are only parsed once.
	digest uint64
	raw    []byte
	parsed *codepanel.Data
}

// Run processes messages from in until in is closed or ctx is done.
func (u *RenderUnit) Run(ctx context.Context, in <-chan Message, out chan<- Message) error {
	u.settings = DefaultSettings()
	return run(ctx, in, out, "render", func(m Message) error {
		return u.handle(ctx, m, out)
	})
}

func (u *RenderUnit) handle(ctx context.Context, m Message, out chan<- Message) error {
	logger := orDefault(u.Logger)
	switch m.Kind {
	case KindConfig:
		var s Settings
		if err := m.Decode(&s); err != nil {
			return fault(ctx, out, m, "render", err)
		}
		u.settings = s
		return nil
	case KindPayload:
		data, err := u.parse(m.Body)
		if err != nil {
			return fault(ctx, out, m, "render", err)
		}
		return emit(ctx, out, logger, m, u.settings, data)
	case KindRerender:
		var data codepanel.Data
		if err := m.Decode(&data); err != nil {
			return fault(ctx, out, m, "render", fmt.Errorf("%w: %v", codepanel.ErrMalformed, err))
		}
		if err := data.Validate(); err != nil {
			return fault(ctx, out, m, "render", err)
		}
		return emit(ctx, out, logger, m, u.settings, &data)
	default:
		return fault(ctx, out, m, "render", fmt.Errorf("unexpected %v message", m.Kind))
	}
}

func (u *RenderUnit) parse(raw []byte) (*codepanel.Data, error) {
	digest := xxh3.Hash(raw)
	if u.parsed != nil && digest == u.digest && bytes.Equal(raw, u.raw) {
		return u.parsed, nil
	}
	data, err := codepanel.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	u.digest, u.raw, u.parsed = digest, bytes.Clone(raw), data
	return data, nil
}

// emit linearizes data and sends the four output messages. All messages are encoded before the
// first is sent, so that a pass produces either all outputs or a fault.
func emit(ctx context.Context, out chan<- Message, logger *slog.Logger, in Message, s Settings, data *codepanel.Data) error {
	pass := in.PassID
	opts, err := s.Options()
	if err != nil {
		return fault(ctx, out, in, "render", err)
	}
	res := linearize.Build(data, opts...)

	var msgs []Message
	for _, o := range []struct {
		kind Kind
		v    any
	}{
		{KindRows, res.Rows},
		{KindNavigation, res.Navigation},
		{KindHasHiddenAPI, res.HasHiddenAPI},
		{KindParsed, data},
	} {
		msg, err := NewMessage(o.kind, pass, o.v)
		if err != nil {
			return fault(ctx, out, in, "render", err)
		}
		msgs = append(msgs, msg)
	}
	logger.Debug("pipeline.render", "pass", pass, "rows", len(res.Rows), "hidden", res.HasHiddenAPI)
	for _, msg := range msgs {
		if err := send(ctx, out, msg); err != nil {
			return err
		}
	}
	return nil
}

// run calls handle for every message from in, one at a time.
// run calls handle for every message from in. A panic in handle is reported on out as a fault
// of the message being handled.
func run(ctx context.Context, in <-chan Message, out chan<- Message, unit string, handle func(Message) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-in:
			if !ok {
				return nil
			}
			if err := handleRecover(ctx, out, m, unit, handle); err != nil {
				return err
			}
		}
	}
}

var errPanic = errors.New("panic")

func handleRecover(ctx context.Context, out chan<- Message, m Message, unit string, handle func(Message) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fault(ctx, out, m, unit, fmt.Errorf("%w: %v", errPanic, r))
		}
	}()
	return handle(m)
}

func send(ctx context.Context, out chan<- Message, m Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case out <- m:
		return nil
	}
}

// fault reports err as the answer to in. It only returns an error if the fault can't be
// delivered.
func fault(ctx context.Context, out chan<- Message, in Message, unit string, err error) error {
	msg, encErr := NewMessage(KindFault, in.PassID, Fault{Unit: unit, Error: err.Error()})
	if encErr != nil {
		return encErr
	}
	msg.Seq = in.Seq
	return send(ctx, out, msg)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
