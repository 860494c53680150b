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

// Package apiview computes line accurate diffs between two revisions of a library's public API
// and flattens them into rows for a code review view.
//
// An API revision is a tree of nodes (namespaces, types, members) that carry styled tokens. The
// work is split across a few packages:
//
//   - [znkr.io/apiview/token] aligns two token sequences.
//   - [znkr.io/apiview/apitree] matches two API trees by node id and classifies every node.
//   - [znkr.io/apiview/codepanel] turns a classified tree into per node rows.
//   - [znkr.io/apiview/linearize] flattens those rows according to the visibility options and
//     builds the navigation tree.
//   - [znkr.io/apiview/pipeline] runs the above as isolated units that exchange messages.
//   - [znkr.io/apiview/textview] prints rows for a terminal.
//
// This package only holds the options shared by all of them.
//
// [znkr.io/apiview/token]: https://pkg.go.dev/znkr.io/apiview/token
// [znkr.io/apiview/apitree]: https://pkg.go.dev/znkr.io/apiview/apitree
// [znkr.io/apiview/codepanel]: https://pkg.go.dev/znkr.io/apiview/codepanel
// [znkr.io/apiview/linearize]: https://pkg.go.dev/znkr.io/apiview/linearize
// [znkr.io/apiview/pipeline]: https://pkg.go.dev/znkr.io/apiview/pipeline
// [znkr.io/apiview/textview]: https://pkg.go.dev/znkr.io/apiview/textview
package apiview
