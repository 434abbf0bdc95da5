package apic

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Managed object class names that carry fault attributes in a faultInfo query.
const (
	TagFaultInst     = "faultInst"
	TagFaultDelegate = "faultDelegate"
)

// FaultAttributes is the attribute vocabulary shared by faultInst and
// faultDelegate objects. Only the fields the report consumes are decoded.
type FaultAttributes struct {
	DN             string `json:"dn"`
	Severity       string `json:"severity"`
	Ack            string `json:"ack"`
	Code           string `json:"code"`
	Cause          string `json:"cause"`
	Domain         string `json:"domain"`
	Descr          string `json:"descr"`
	LastTransition string `json:"lastTransition"`
	Occur          Scalar `json:"occur"`
}

// FaultEntry is one element of the imdata array returned by a fault query.
// Tag names the wrapping class; Attributes is nil when the tag is not one of
// the fault classes or its body could not be decoded (see DecodeErr).
type FaultEntry struct {
	Tag        string
	Attributes *FaultAttributes
	DecodeErr  error
}

type moBody struct {
	Attributes json.RawMessage `json:"attributes"`
}

// UnmarshalJSON resolves the wrapping tag. A malformed attribute bag is kept
// on the entry instead of failing the whole response, so one bad record does
// not discard the rest of the batch.
func (e *FaultEntry) UnmarshalJSON(data []byte) error {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}

	for _, tag := range []string{TagFaultInst, TagFaultDelegate} {
		body, ok := wrapper[tag]
		if !ok {
			continue
		}
		e.Tag = tag
		var mo moBody
		if err := json.Unmarshal(body, &mo); err != nil {
			e.DecodeErr = fmt.Errorf("decode %s: %w", tag, err)
			return nil
		}
		if len(mo.Attributes) == 0 {
			e.DecodeErr = fmt.Errorf("decode %s: missing attributes", tag)
			return nil
		}
		var attrs FaultAttributes
		if err := json.Unmarshal(mo.Attributes, &attrs); err != nil {
			e.DecodeErr = fmt.Errorf("decode %s attributes: %w", tag, err)
			return nil
		}
		e.Attributes = &attrs
		return nil
	}

	keys := make([]string, 0, len(wrapper))
	for k := range wrapper {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.Tag = strings.Join(keys, ",")
	return nil
}

// Scalar decodes a JSON string, number or null into its string form. APIC
// serialises counters as strings, but fixtures and proxies are not always
// as careful.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scalar: %w", err)
	}
	*s = Scalar(n.String())
	return nil
}

type faultResponse struct {
	TotalCount Scalar       `json:"totalCount"`
	Imdata     []FaultEntry `json:"imdata"`
}

type healthResponse struct {
	Imdata []struct {
		FabricHealthTotal *struct {
			Attributes struct {
				Cur Scalar `json:"cur"`
			} `json:"attributes"`
		} `json:"fabricHealthTotal"`
	} `json:"imdata"`
}

type loginResponse struct {
	Imdata []struct {
		AaaLogin *struct {
			Attributes struct {
				Token string `json:"token"`
			} `json:"attributes"`
		} `json:"aaaLogin"`
	} `json:"imdata"`
}

// errorResponse is the envelope APIC uses for rejected requests.
type errorResponse struct {
	Imdata []struct {
		Error *struct {
			Attributes struct {
				Code string `json:"code"`
				Text string `json:"text"`
			} `json:"attributes"`
		} `json:"error"`
	} `json:"imdata"`
}

type aaaUser struct {
	AaaUser struct {
		Attributes aaaUserAttributes `json:"attributes"`
	} `json:"aaaUser"`
}

type aaaUserAttributes struct {
	Name string `json:"name"`
	Pwd  string `json:"pwd,omitempty"`
}

func newAaaUser(name, pwd string) aaaUser {
	var u aaaUser
	u.AaaUser.Attributes = aaaUserAttributes{Name: name, Pwd: pwd}
	return u
}
