package fault

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tonhe/acifault/internal/apic"
)

// Record-scoped normalization errors. All of them wrap ErrMalformedFault so
// a caller can skip the record with a single errors.Is check.
var (
	ErrMalformedFault       = errors.New("malformed fault record")
	ErrUnsupportedFaultType = fmt.Errorf("%w: unsupported fault type", ErrMalformedFault)
	ErrInvalidSeverity      = fmt.Errorf("%w: invalid severity", ErrMalformedFault)
	ErrInvalidAck           = fmt.Errorf("%w: invalid ack", ErrMalformedFault)
	ErrInvalidTimestamp     = fmt.Errorf("%w: invalid lastTransition", ErrMalformedFault)
	ErrInvalidOccur         = fmt.Errorf("%w: invalid occur", ErrMalformedFault)
)

// Normalize maps a raw imdata entry onto a Fault owned by fabric. Both fault
// classes share one attribute vocabulary, so extraction is identical once
// the tag is resolved.
//
// Defaults: domain, code, cause and descr to "", ack to "no", occur to 1.
// Severity and lastTransition are required.
func Normalize(fabric string, health int, entry apic.FaultEntry) (Fault, error) {
	switch entry.Tag {
	case apic.TagFaultInst, apic.TagFaultDelegate:
	default:
		return Fault{}, fmt.Errorf("%w %q", ErrUnsupportedFaultType, entry.Tag)
	}
	if entry.DecodeErr != nil {
		return Fault{}, fmt.Errorf("%w: %v", ErrMalformedFault, entry.DecodeErr)
	}
	if entry.Attributes == nil {
		return Fault{}, fmt.Errorf("%w: %s without attributes", ErrMalformedFault, entry.Tag)
	}
	attrs := entry.Attributes

	sev := Severity(strings.ToLower(strings.TrimSpace(attrs.Severity)))
	if !sev.Valid() {
		return Fault{}, fmt.Errorf("%w %q", ErrInvalidSeverity, attrs.Severity)
	}

	ack := AckNo
	switch strings.ToLower(strings.TrimSpace(attrs.Ack)) {
	case "", "no":
	case "yes":
		ack = AckYes
	default:
		return Fault{}, fmt.Errorf("%w %q", ErrInvalidAck, attrs.Ack)
	}

	ts, err := ParseTransition(strings.TrimSpace(attrs.LastTransition))
	if err != nil {
		return Fault{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}

	occur := 1
	if v := strings.TrimSpace(string(attrs.Occur)); v != "" {
		occur, err = strconv.Atoi(v)
		if err != nil || occur < 0 {
			return Fault{}, fmt.Errorf("%w %q", ErrInvalidOccur, v)
		}
	}

	return Fault{
		Fabric:         fabric,
		FabricHealth:   health,
		Severity:       sev,
		Ack:            ack,
		Code:           attrs.Code,
		Cause:          attrs.Cause,
		Domain:         attrs.Domain,
		Descr:          attrs.Descr,
		LastTransition: ts,
		Occur:          occur,
	}, nil
}
