// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"corewm.dev/corewm/surfaceinfo"
)

// ErrUnsupportedTransition is returned by SetType when a client
// requests a type change the engine has no transition for (spec.md
// §7), e.g. morphing a dialog to a gloss without a parent. The request
// is rejected and the surface's record is left unchanged. SetState does
// not return it: a request for an unrecognised state is a no-op.
var ErrUnsupportedTransition = errors.New("wm: unsupported transition")

// Unknown surfaces and sessions (spec.md §7, "stale handle from
// client") never surface an error: every engine entry point that takes
// a surfaceinfo.Surface treats surfaceinfo.ErrUnknownSurface as a
// silent no-op. surfaceinfo.ErrInconsistentSpec is returned verbatim
// from Emplace without a wm-local wrapper, since it already names the
// violated invariant.

func (e *Engine) unsupportedTransition(surface surfaceinfo.Surface, detail string) error {
	info, err := e.store.InfoFor(surface)
	if err == nil {
		e.logger.Printf("wm: unsupported transition (%s):\n%s", detail, spew.Sdump(info))
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedTransition, detail)
}
