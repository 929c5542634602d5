package server

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
	"github.com/arrayd-io/arrayd/internal/kernel"
	"github.com/arrayd-io/arrayd/internal/parallel"
	"github.com/arrayd-io/arrayd/internal/symtab"
)

// Handler executes command envelopes against the symbol table.
type Handler struct {
	table          *symtab.Table
	par            parallel.Config
	compressThresh int
	log            *slog.Logger
	registry       map[string]func(args map[string]string) Reply
}

// NewHandler builds a Handler with every command registered.
// compressThresh is the fetch payload size above which replies are
// lz4-framed; negative disables compression.
func NewHandler(table *symtab.Table, par parallel.Config, compressThresh int, log *slog.Logger) *Handler {
	h := &Handler{table: table, par: par, compressThresh: compressThresh, log: log}
	h.registry = map[string]func(args map[string]string) Reply{
		"create":  h.handleCreate,
		"set":     h.handleSet,
		"binopvv": h.handleBinOpVV,
		"binopvs": h.handleBinOpVS,
		"binopsv": h.handleBinOpSV,
		"opeqvv":  h.handleOpEqVV,
		"opeqvs":  h.handleOpEqVS,
		"clip":    h.handleClip,
		"info":    h.handleInfo,
		"str":     h.handleStr,
		"delete":  h.handleDelete,
		"fetch":   h.handleFetch,
	}
	return h
}

// Execute routes one request to its registered command.
func (h *Handler) Execute(req Request) Reply {
	cmd, ok := h.registry[req.Cmd]
	if !ok {
		return errorReply(fmt.Errorf("unrecognized command %q", req.Cmd))
	}
	reply := cmd(req.Args)
	if reply.MsgType == MsgError {
		h.log.Warn("command failed", "cmd", req.Cmd, "msg", reply.Msg)
	} else {
		h.log.Debug("command ok", "cmd", req.Cmd)
	}
	return reply
}

func missingArg(key string) Reply {
	return errorReply(fmt.Errorf("missing argument %q", key))
}

// handleCreate makes a new array. Args: dtype, size, and optionally
// value (fill) and max_bits for bigint arrays.
func (h *Handler) handleCreate(args map[string]string) Reply {
	dtName, ok := args["dtype"]
	if !ok {
		return missingArg("dtype")
	}
	dt := dtype.FromString(dtName)
	if dt == dtype.Undef {
		return errorReply(fmt.Errorf("unrecognized dtype %q", dtName))
	}
	sizeStr, ok := args["size"]
	if !ok {
		return missingArg("size")
	}
	shape, err := parseShape(sizeStr)
	if err != nil {
		return errorReply(err)
	}

	var a *array.Array
	if dt == dtype.BigInt {
		maxBits := -1
		if mb, ok := args["max_bits"]; ok {
			maxBits, err = strconv.Atoi(mb)
			if err != nil {
				return errorReply(fmt.Errorf("bad max_bits %q", mb))
			}
		}
		a, err = array.NewBigInt(shape, maxBits)
	} else {
		a, err = array.New(shape, dt)
	}
	if err != nil {
		return errorReply(err)
	}

	if fill, ok := args["value"]; ok {
		if err := fillArray(a, fill, h.par); err != nil {
			return errorReply(err)
		}
	}
	return normal(h.table.Add(a))
}

// handleSet fills an existing array with a scalar value. Args: name,
// value; the value is parsed in the array's own dtype.
func (h *Handler) handleSet(args map[string]string) Reply {
	name, ok := args["name"]
	if !ok {
		return missingArg("name")
	}
	value, ok := args["value"]
	if !ok {
		return missingArg("value")
	}
	err := h.table.Mutate(name, func(a *array.Array) error {
		return fillArray(a, value, h.par)
	})
	if err != nil {
		return errorReply(err)
	}
	return normal("set " + name)
}

// parseShape parses a comma-separated extent list ("4" or "2,3").
func parseShape(s string) (array.Shape, error) {
	parts := strings.Split(s, ",")
	shape := make(array.Shape, 0, len(parts))
	for _, p := range parts {
		dim, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || dim < 0 {
			return nil, fmt.Errorf("bad size %q", s)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}

// fillArray assigns one parsed scalar to every lane.
func fillArray(a *array.Array, value string, par parallel.Config) error {
	s, err := array.ParseScalar(value, a.DType())
	if err != nil {
		return err
	}
	n := a.NumElements()
	switch a.DType() {
	case dtype.Uint8:
		v, dst := uint8(s.AsUint()), a.AsUint8()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Uint16:
		v, dst := uint16(s.AsUint()), a.AsUint16()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Uint32:
		v, dst := uint32(s.AsUint()), a.AsUint32()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Uint64:
		v, dst := s.AsUint(), a.AsUint64()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Int8:
		v, dst := int8(s.AsInt()), a.AsInt8()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Int16:
		v, dst := int16(s.AsInt()), a.AsInt16()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Int32:
		v, dst := int32(s.AsInt()), a.AsInt32()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Int64:
		v, dst := s.AsInt(), a.AsInt64()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Float32:
		v, dst := float32(s.AsReal()), a.AsFloat32()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Float64:
		v, dst := s.AsReal(), a.AsFloat64()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Complex64:
		v, dst := complex64(s.AsComplex()), a.AsComplex64()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Complex128:
		v, dst := s.AsComplex(), a.AsComplex128()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.Bool:
		v, dst := s.AsBool(), a.AsBool()
		parallel.For(n, func(i int) { dst[i] = v }, par)
	case dtype.BigInt:
		v, dst := s.AsBigInt(), a.AsBigInt()
		parallel.For(n, func(i int) { dst[i].Set(v) }, par)
	default:
		return fmt.Errorf("cannot fill array of dtype %s", a.DType())
	}
	return nil
}

// handleBinOpVV evaluates `a op b` over two named arrays. Args: op, a, b.
func (h *Handler) handleBinOpVV(args map[string]string) Reply {
	op, ok := args["op"]
	if !ok {
		return missingArg("op")
	}
	l, err := h.lookupArg(args, "a")
	if err != nil {
		return errorReply(err)
	}
	r, err := h.lookupArg(args, "b")
	if err != nil {
		return errorReply(err)
	}
	out, err := kernel.BinOpVV(l, r, op, h.par)
	if err != nil {
		return errorReply(err)
	}
	return normal(h.table.Add(out))
}

// handleBinOpVS evaluates `a op value`. Args: op, a, value, dtype.
func (h *Handler) handleBinOpVS(args map[string]string) Reply {
	op, ok := args["op"]
	if !ok {
		return missingArg("op")
	}
	l, err := h.lookupArg(args, "a")
	if err != nil {
		return errorReply(err)
	}
	s, err := scalarArg(args)
	if err != nil {
		return errorReply(err)
	}
	out, err := kernel.BinOpVS(l, s, op, h.par)
	if err != nil {
		return errorReply(err)
	}
	return normal(h.table.Add(out))
}

// handleBinOpSV evaluates `value op b`. Args: op, b, value, dtype.
func (h *Handler) handleBinOpSV(args map[string]string) Reply {
	op, ok := args["op"]
	if !ok {
		return missingArg("op")
	}
	r, err := h.lookupArg(args, "b")
	if err != nil {
		return errorReply(err)
	}
	s, err := scalarArg(args)
	if err != nil {
		return errorReply(err)
	}
	out, err := kernel.BinOpSV(s, r, op, h.par)
	if err != nil {
		return errorReply(err)
	}
	return normal(h.table.Add(out))
}

// handleOpEqVV evaluates `a op= b` in place. Args: op, a, b.
func (h *Handler) handleOpEqVV(args map[string]string) Reply {
	op, ok := args["op"]
	if !ok {
		return missingArg("op")
	}
	name, ok := args["a"]
	if !ok {
		return missingArg("a")
	}
	r, err := h.lookupArg(args, "b")
	if err != nil {
		return errorReply(err)
	}
	err = h.table.Mutate(name, func(l *array.Array) error {
		return kernel.OpEqVV(l, r, op, h.par)
	})
	if err != nil {
		return errorReply(err)
	}
	return normal("opeqvv success")
}

// handleOpEqVS evaluates `a op= value` in place. Args: op, a, value,
// dtype.
func (h *Handler) handleOpEqVS(args map[string]string) Reply {
	op, ok := args["op"]
	if !ok {
		return missingArg("op")
	}
	name, ok := args["a"]
	if !ok {
		return missingArg("a")
	}
	s, err := scalarArg(args)
	if err != nil {
		return errorReply(err)
	}
	err = h.table.Mutate(name, func(l *array.Array) error {
		return kernel.OpEqVS(l, s, op, h.par)
	})
	if err != nil {
		return errorReply(err)
	}
	return normal("opeqvs success")
}

// handleClip clamps a named array between min and max, each either a
// scalar literal or another array's name. Args: name, min, max.
func (h *Handler) handleClip(args map[string]string) Reply {
	a, err := h.lookupArg(args, "name")
	if err != nil {
		return errorReply(err)
	}
	min, err := h.boundArg(args, "min", a.DType())
	if err != nil {
		return errorReply(err)
	}
	max, err := h.boundArg(args, "max", a.DType())
	if err != nil {
		return errorReply(err)
	}
	out, err := kernel.Clip(a, min, max, h.par)
	if err != nil {
		return errorReply(err)
	}
	return normal(h.table.Add(out))
}

// boundArg resolves a clip limit: a registered array name, or a scalar
// literal parsed in the clipped array's element type.
func (h *Handler) boundArg(args map[string]string, key string, dt dtype.DType) (kernel.Bound, error) {
	raw, ok := args[key]
	if !ok {
		return kernel.Bound{}, fmt.Errorf("missing argument %q", key)
	}
	if arr, err := h.table.Lookup(raw); err == nil {
		return kernel.ArrayBound(arr), nil
	} else if !errors.Is(err, symtab.ErrUndefinedSymbol) {
		return kernel.Bound{}, err
	}
	sdt := dt
	if sdt == dtype.Bool {
		// Bool arrays accept numeric literals as limits.
		if _, err := strconv.ParseBool(raw); err != nil {
			sdt = dtype.Int64
		}
	}
	s, err := array.ParseScalar(raw, sdt)
	if err != nil {
		// Fall back to a float literal for integer arrays; the kernel
		// casts it to the element type.
		if f, ferr := array.ParseScalar(raw, dtype.Float64); ferr == nil {
			return kernel.ScalarBound(f), nil
		}
		return kernel.Bound{}, err
	}
	return kernel.ScalarBound(s), nil
}

// handleInfo reports dtype, shape, and itemsize. Args: name.
func (h *Handler) handleInfo(args map[string]string) Reply {
	a, err := h.lookupArg(args, "name")
	if err != nil {
		return errorReply(err)
	}
	msg := fmt.Sprintf("dtype=%s shape=%s size=%d itemsize=%d",
		a.DType(), a.Shape(), a.NumElements(), a.DType().Size())
	if a.DType() == dtype.BigInt {
		msg += fmt.Sprintf(" max_bits=%d", a.MaxBits())
	}
	return normal(msg)
}

// handleStr renders a human-readable preview. Args: name, printThresh.
func (h *Handler) handleStr(args map[string]string) Reply {
	a, err := h.lookupArg(args, "name")
	if err != nil {
		return errorReply(err)
	}
	thresh := 30
	if raw, ok := args["printThresh"]; ok {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			thresh = v
		}
	}
	return normal(previewArray(a, thresh))
}

// handleFetch returns an array's bulk element payload in the reply
// envelope's payload fields, lz4-framed above the configured threshold.
// Args: name.
func (h *Handler) handleFetch(args map[string]string) Reply {
	name, ok := args["name"]
	if !ok {
		return missingArg("name")
	}
	a, err := h.table.Lookup(name)
	if err != nil {
		return errorReply(err)
	}
	payload, err := encodePayload(a)
	if err != nil {
		return errorReply(err)
	}
	out, encoding, err := compressPayload(payload, h.compressThresh)
	if err != nil {
		return errorReply(err)
	}
	reply := normal(name)
	reply.Payload = out
	reply.Encoding = encoding
	reply.DType = a.DType().String()
	reply.Size = a.NumElements()
	h.log.Debug("fetch", "name", name, "bytes", len(out), "encoding", encoding)
	return reply
}

// handleDelete removes an array from the symbol table. Args: name.
func (h *Handler) handleDelete(args map[string]string) Reply {
	name, ok := args["name"]
	if !ok {
		return missingArg("name")
	}
	if err := h.table.Delete(name); err != nil {
		return errorReply(err)
	}
	return normal("deleted " + name)
}

func (h *Handler) lookupArg(args map[string]string, key string) (*array.Array, error) {
	name, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("missing argument %q", key)
	}
	return h.table.Lookup(name)
}

func scalarArg(args map[string]string) (array.Scalar, error) {
	value, ok := args["value"]
	if !ok {
		return array.Scalar{}, fmt.Errorf("missing argument %q", "value")
	}
	dtName, ok := args["dtype"]
	if !ok {
		return array.Scalar{}, fmt.Errorf("missing argument %q", "dtype")
	}
	dt := dtype.FromString(dtName)
	if dt == dtype.Undef {
		return array.Scalar{}, fmt.Errorf("unrecognized dtype %q", dtName)
	}
	return array.ParseScalar(value, dt)
}

// previewArray renders up to thresh leading elements.
func previewArray(a *array.Array, thresh int) string {
	n := a.NumElements()
	shown := n
	if shown > thresh {
		shown = thresh
	}
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < shown; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(elementString(a, i))
	}
	if shown < n {
		fmt.Fprintf(&b, " ... (%d more)", n-shown)
	}
	b.WriteString("]")
	return b.String()
}

func elementString(a *array.Array, i int) string {
	switch a.DType() {
	case dtype.Uint8:
		return strconv.FormatUint(uint64(a.AsUint8()[i]), 10)
	case dtype.Uint16:
		return strconv.FormatUint(uint64(a.AsUint16()[i]), 10)
	case dtype.Uint32:
		return strconv.FormatUint(uint64(a.AsUint32()[i]), 10)
	case dtype.Uint64:
		return strconv.FormatUint(a.AsUint64()[i], 10)
	case dtype.Int8:
		return strconv.FormatInt(int64(a.AsInt8()[i]), 10)
	case dtype.Int16:
		return strconv.FormatInt(int64(a.AsInt16()[i]), 10)
	case dtype.Int32:
		return strconv.FormatInt(int64(a.AsInt32()[i]), 10)
	case dtype.Int64:
		return strconv.FormatInt(a.AsInt64()[i], 10)
	case dtype.Float32:
		return strconv.FormatFloat(float64(a.AsFloat32()[i]), 'g', -1, 32)
	case dtype.Float64:
		return strconv.FormatFloat(a.AsFloat64()[i], 'g', -1, 64)
	case dtype.Complex64:
		return strconv.FormatComplex(complex128(a.AsComplex64()[i]), 'g', -1, 64)
	case dtype.Complex128:
		return strconv.FormatComplex(a.AsComplex128()[i], 'g', -1, 128)
	case dtype.Bool:
		return strconv.FormatBool(a.AsBool()[i])
	case dtype.BigInt:
		return a.AsBigInt()[i].String()
	case dtype.Str:
		return strconv.Quote(a.AsStr()[i])
	default:
		return "?"
	}
}
