// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwreg

import "errors"

var (
	// ErrConfig reports a malformed register geometry (address, width
	// or offset), detected when the register is declared.
	ErrConfig = errors.New("hwreg: invalid register configuration")

	// ErrRange reports a value that does not fit in the bit width of
	// the register it is written to.
	ErrRange = errors.New("hwreg: value out of range")

	// ErrIndex reports a bit index outside of a register.
	ErrIndex = errors.New("hwreg: bit index out of range")
)
