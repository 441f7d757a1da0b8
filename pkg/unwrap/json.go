package unwrap

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/arcturial/clickatell/pkg/apierror"
)

// remoteError is the vendor's failure object.
type remoteError struct {
	Description string      `json:"description"`
	Code        json.Number `json:"code"`
}

// JSON decodes a vendor JSON document.
//
// An "error" object raises a REMOTE_ERROR carrying its description and code.
// Otherwise the value under "data" is returned, or the whole document when
// there is no "data" key.
func JSON(data []byte) (interface{}, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		// Not an object; return the decoded scalar or list as-is.
		var v interface{}
		if err2 := json.Unmarshal(data, &v); err2 != nil {
			return nil, fmt.Errorf("unwrap:json - failed to decode json: %w", err)
		}
		return v, nil
	}

	if raw, ok := doc["error"]; ok && string(raw) != "null" {
		return nil, decodeRemote(raw)
	}

	if raw, ok := doc["data"]; ok {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("unwrap:json - failed to decode data: %w", err)
		}
		return v, nil
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unwrap:json - failed to decode json: %w", err)
	}
	return v, nil
}

func decodeRemote(raw json.RawMessage) error {
	var re remoteError
	if err := json.Unmarshal(raw, &re); err != nil {
		// "error" is not an object; keep the raw text as the description.
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return apierror.Remote(s, 0)
		}
		return apierror.Remote(string(raw), 0)
	}

	code := 0
	if re.Code != "" {
		if n, err := strconv.Atoi(re.Code.String()); err == nil {
			code = n
		}
	}
	return apierror.Remote(re.Description, code)
}
