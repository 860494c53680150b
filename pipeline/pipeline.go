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

// Package pipeline runs the diff engine as independent units that communicate only through
// messages.
//
// A [RenderUnit] turns a code panel payload into rows, a navigation tree, the hidden API flag
// and an echo of the parsed payload. A [TreeWalkUnit] does the same for two API trees and
// requests the token diff of every node from a [TokenDiffUnit]. Every message body is an encoded
// copy, units never share memory.
//
// Each pass is identified by a pass id. Units answer with the pass id of the request and callers
// drop messages of other passes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/linearize"
)

// Output collects the four output messages of a pass.
type Output struct {
	PassID       string
	Rows         []codepanel.Row
	Navigation   []*linearize.NavigationNode
	HasHiddenAPI bool
	Parsed       *codepanel.Data
}

// Collect reads messages from out until all four outputs of the pass arrived. Messages of other
// passes are dropped. It fails if a unit reports a fault, if out is closed early or if ctx is
// done before the pass is complete.
func Collect(ctx context.Context, out <-chan Message, passID string) (*Output, error) {
	res := &Output{PassID: passID}
	seen := make(map[Kind]bool)
	for len(seen) < 4 {
		var m Message
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for pass %s: %w", passID, ctx.Err())
		case msg, ok := <-out:
			if !ok {
				return nil, fmt.Errorf("pass %s: output closed", passID)
			}
			m = msg
		}
		if m.PassID != passID {
			continue
		}

		var err error
		switch m.Kind {
		case KindRows:
			err = m.Decode(&res.Rows)
		case KindNavigation:
			err = m.Decode(&res.Navigation)
		case KindHasHiddenAPI:
			err = m.Decode(&res.HasHiddenAPI)
		case KindParsed:
			res.Parsed = new(codepanel.Data)
			err = m.Decode(res.Parsed)
		case KindFault:
			var f Fault
			if err := m.Decode(&f); err != nil {
				return nil, err
			}
			return nil, f.err()
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		seen[m.Kind] = true
	}
	return res, nil
}

// Render runs a single pass of a [RenderUnit] over a code panel payload in JSON form.
func Render(ctx context.Context, payload []byte, s Settings) (*Output, error) {
	pass := uuid.NewString()
	cfg, err := NewMessage(KindConfig, pass, s)
	if err != nil {
		return nil, err
	}
	in := []Message{cfg, {Kind: KindPayload, PassID: pass, Body: payload}}
	return runPass(ctx, pass, in, func(ctx context.Context, g *errgroup.Group, in <-chan Message, out chan<- Message) {
		u := &RenderUnit{}
		g.Go(func() error { return u.Run(ctx, in, out) })
	})
}

// Compare runs a single pass of a [TreeWalkUnit] connected to a [TokenDiffUnit] over two API
// trees.
func Compare(ctx context.Context, trees Trees, s Settings) (*Output, error) {
	pass := uuid.NewString()
	cfg, err := NewMessage(KindConfig, pass, s)
	if err != nil {
		return nil, err
	}
	body, err := NewMessage(KindTrees, pass, trees)
	if err != nil {
		return nil, err
	}
	return runPass(ctx, pass, []Message{cfg, body}, func(ctx context.Context, g *errgroup.Group, in <-chan Message, out chan<- Message) {
		requests := make(chan Message, 1)
		replies := make(chan Message, 1)
		walker := &TreeWalkUnit{}
		differ := &TokenDiffUnit{}
		g.Go(func() error {
			defer close(requests)
			return walker.Run(ctx, in, out, requests, replies)
		})
		g.Go(func() error {
			return differ.Run(ctx, requests, replies)
		})
	})
}

// runPass starts units with start, feeds them in and collects the output of the pass.
func runPass(ctx context.Context, pass string, msgs []Message, start func(context.Context, *errgroup.Group, <-chan Message, chan<- Message)) (*Output, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	in := make(chan Message, len(msgs))
	out := make(chan Message, 4)
	for _, m := range msgs {
		in <- m
	}
	close(in)
	start(ctx, g, in, out)

	res, err := Collect(ctx, out, pass)
	cancel()
	if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) && err == nil {
		err = werr
	}
	if err != nil {
		slog.Debug("pipeline.pass", "pass", pass, "err", err)
		return nil, err
	}
	slog.Debug("pipeline.pass", "pass", pass, "rows", len(res.Rows))
	return res, nil
}
