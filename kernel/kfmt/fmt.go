// Package kfmt provides a minimal, allocation-free formatted output facility
// that is safe to use from the moment the kernel gains control, before the Go
// allocator and the console drivers are initialized.
package kfmt

import (
	"io"
	"unsafe"
)

// scratchSize defines the buffer size used for formatting numbers. It is
// large enough for a 64-bit value in base 8 plus sign and padding.
const scratchSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	scratch [scratchSize]byte

	// singleByte is a shared one-byte buffer used to emit characters
	// without converting strings to byte slices (which would allocate).
	singleByte = []byte{0}

	// earlyBuffer captures output emitted before an output sink is
	// registered.
	earlyBuffer ringBuffer

	// outputSink is the io.Writer that receives Printf output. While it
	// is nil output is redirected to earlyBuffer.
	outputSink io.Writer
)

// SetOutputSink registers w as the target for Printf output and drains any
// data captured in the early boot buffer into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuffer)
	}
}

// GetOutputSink returns the currently registered output sink. It returns nil
// if output is still being captured by the early boot buffer.
func GetOutputSink() io.Writer {
	return outputSink
}

// Printf formats its arguments and writes them to the active output sink. It
// supports a subset of the fmt verbs:
//
//	%s  string or []byte, uninterpreted
//	%c  a single byte
//	%t  "true" or "false"
//	%o  integer, base 8
//	%d  integer, base 10
//	%x  integer, base 16 with lower-case digits
//
// An optional decimal width may precede the verb; prefixing the width with 0
// requests zero padding. Strings and base-10 values shorter than the width
// are left-padded with spaces unless zero padding is requested; base-8 and
// base-16 values are always left-padded with zeroes.
//
// Printf performs no memory allocation and may therefore be called before
// the Go runtime is bootstrapped. It deliberately omits %v and %p as both
// would drag in reflect and with it the allocator.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but writes the formatted output to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		argIndex int
		width    int
		zeroPad  bool
	)

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			emitByte(w, format[i])
			continue
		}

		// Scan the optional zero-pad flag, the width and the verb.
		width, zeroPad = 0, false
		i++
	scanVerb:
		for ; i < len(format); i++ {
			ch := format[i]
			switch {
			case ch == '%':
				emitByte(w, '%')
				break scanVerb
			case ch == '0' && width == 0 && !zeroPad:
				zeroPad = true
				continue
			case ch >= '0' && ch <= '9':
				width = width*10 + int(ch-'0')
				continue
			case ch == 'd' || ch == 'x' || ch == 'o' || ch == 's' || ch == 't' || ch == 'c':
				if argIndex >= len(args) {
					doWrite(w, errMissingArg)
					break scanVerb
				}

				emitArg(w, ch, args[argIndex], width, zeroPad)
				argIndex++
				break scanVerb
			default:
				doWrite(w, errNoVerb)
				break scanVerb
			}
		}
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

// emitArg dispatches a single argument to the emitter for verb.
func emitArg(w io.Writer, verb byte, arg interface{}, width int, zeroPad bool) {
	switch verb {
	case 'o':
		emitInt(w, arg, 8, width, zeroPad)
	case 'd':
		emitInt(w, arg, 10, width, zeroPad)
	case 'x':
		emitInt(w, arg, 16, width, zeroPad)
	case 's':
		emitString(w, arg, width)
	case 'c':
		if v, isByte := arg.(byte); isByte {
			emitByte(w, v)
		} else {
			doWrite(w, errWrongArgType)
		}
	case 't':
		switch arg {
		case true:
			doWrite(w, trueValue)
		case false:
			doWrite(w, falseValue)
		default:
			doWrite(w, errWrongArgType)
		}
	}
}

// emitString emits a string or []byte argument left-padded to width. String
// contents are emitted one byte at a time as a string-to-slice conversion
// would allocate.
func emitString(w io.Writer, arg interface{}, width int) {
	switch v := arg.(type) {
	case string:
		for pad := width - len(v); pad > 0; pad-- {
			emitByte(w, ' ')
		}
		for i := 0; i < len(v); i++ {
			emitByte(w, v[i])
		}
	case []byte:
		for pad := width - len(v); pad > 0; pad-- {
			emitByte(w, ' ')
		}
		doWrite(w, v)
	default:
		doWrite(w, errWrongArgType)
	}
}

// emitInt emits an integer argument of any built-in signed or unsigned type
// in the requested base, left-padded to width. Base-10 values space-pad
// unless the format requested zero padding; other bases always zero-pad.
func emitInt(w io.Writer, arg interface{}, base uint64, width int, zeroPad bool) {
	var (
		uval     uint64
		negative bool
	)

	switch v := arg.(type) {
	case uint8:
		uval = uint64(v)
	case uint16:
		uval = uint64(v)
	case uint32:
		uval = uint64(v)
	case uint64:
		uval = v
	case uint:
		uval = uint64(v)
	case uintptr:
		uval = uint64(v)
	case int8:
		uval, negative = absolute(int64(v))
	case int16:
		uval, negative = absolute(int64(v))
	case int32:
		uval, negative = absolute(int64(v))
	case int64:
		uval, negative = absolute(v)
	case int:
		uval, negative = absolute(int64(v))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	padCh := byte(' ')
	if zeroPad || base != 10 {
		padCh = '0'
	}

	// Render digits into the scratch buffer starting from its end.
	pos := scratchSize
	for {
		pos--
		digit := byte(uval % base)
		if digit < 10 {
			scratch[pos] = '0' + digit
		} else {
			scratch[pos] = 'a' + digit - 10
		}

		if uval /= base; uval == 0 {
			break
		}
	}

	// Zero padding sits between the sign and the digits; space padding
	// sits before the sign.
	if negative && padCh == '0' {
		for scratchSize-pos < width-1 && pos > 1 {
			pos--
			scratch[pos] = padCh
		}
		pos--
		scratch[pos] = '-'
	} else {
		if negative {
			pos--
			scratch[pos] = '-'
		}
		for scratchSize-pos < width && pos > 0 {
			pos--
			scratch[pos] = padCh
		}
	}

	doWrite(w, scratch[pos:])
}

func absolute(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}

	return uint64(v), false
}

func emitByte(w io.Writer, b byte) {
	singleByte[0] = b
	doWrite(w, singleByte)
}

// doWrite is a proxy that uses the runtime noescape trick to hide p from the
// compiler's escape analysis. Without it the compiler cannot prove that p
// does not escape through the unknown io.Writer and would heap-allocate the
// argument slices, which crashes the kernel when Printf runs before the
// allocator is up.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyBuffer.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
