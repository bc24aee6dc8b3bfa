// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import "fmt"

// Reporter receives the pipeline's log stream. The pipeline never talks to a
// terminal or widget directly; whatever renders the log implements this.
type Reporter interface {
	Logf(format string, args ...any)
	Warnf(format string, args ...any)
}

type discardReporter struct{}

func (discardReporter) Logf(string, ...any)  {}
func (discardReporter) Warnf(string, ...any) {}

// Discard is a Reporter that drops everything.
var Discard Reporter = discardReporter{}

// FuncReporter adapts a plain line sink into a Reporter. Warnings are
// prefixed so they stay visible in a single-stream log.
type FuncReporter func(line string)

func (f FuncReporter) Logf(format string, args ...any) {
	f(fmt.Sprintf(format, args...))
}

func (f FuncReporter) Warnf(format string, args ...any) {
	f("warning: " + fmt.Sprintf(format, args...))
}
