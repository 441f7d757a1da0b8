package validate

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/packet"
)

const logPrefix = "validate:validator"

var numeric = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Warner receives non-fatal validation warnings.
type Warner func(message string)

// SlogWarner logs warnings through slog at warn level.
func SlogWarner(message string) {
	slog.Warn(fmt.Sprintf("%s - %s", logPrefix, message))
}

// Validator applies a RuleSet.
type Validator struct {
	rules RuleSet
	warn  Warner
}

// Option configures a Validator.
type Option func(*Validator)

// WithWarner replaces the slog warner.
func WithWarner(w Warner) Option {
	return func(v *Validator) {
		v.warn = w
	}
}

// New creates a Validator over rules.
func New(rules RuleSet, opts ...Option) *Validator {
	v := &Validator{rules: rules, warn: SlogWarner}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Default creates a Validator over DefaultRules.
func Default(opts ...Option) *Validator {
	return New(DefaultRules(), opts...)
}

// Rules returns the validator's rule set.
func (v *Validator) Rules() RuleSet {
	return v.rules
}

// Validate checks named against the rules of op. An unknown operation is a
// no-op. Fields absent from named are skipped; an optional field is only
// checked when its value is non-empty.
func (v *Validator) Validate(op string, named map[string]interface{}) error {
	rules, ok := v.rules[op]
	if !ok {
		return nil
	}

	for _, fr := range rules {
		val, present := named[fr.Field]
		if !present {
			continue
		}
		if !fr.Has(RuleRequired) && IsEmpty(val) {
			continue
		}
		if err := v.check(val, fr.Rules); err != nil {
			return annotate(fr.Field, err)
		}
	}
	return nil
}

func (v *Validator) check(val interface{}, rules []string) error {
	for _, tag := range rules {
		switch tag {
		case RuleRequired:
			if IsEmpty(val) {
				return apierror.Validation(apierror.KindRequired, apierror.MsgFieldRequired)
			}
		case RuleInt:
			if err := traverse(val, checkInt); err != nil {
				return err
			}
		case RuleTelephone:
			if err := traverse(val, v.checkTelephone); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkInt(value string) error {
	if !numeric.MatchString(strings.TrimSpace(value)) {
		return apierror.Validation(apierror.KindInvalidNumber, fmt.Sprintf("%s (%s)", apierror.MsgInvalidNumber, value))
	}
	return nil
}

func (v *Validator) checkTelephone(value string) error {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "0") && v.warn != nil {
		v.warn(fmt.Sprintf("ClickatellValidation: '%s' replacing leading zero's is advised.", value))
	}
	if err := checkInt(trimmed); err != nil {
		e := apierror.Validation(apierror.KindInvalidTelephone, fmt.Sprintf("%s (%s)", apierror.MsgInvalidTelephone, value))
		e.Err = err
		return e
	}
	return nil
}

// traverse runs fn on every entry of a list or comma-separated value. A
// failing entry of a list gets its zero-based offset recorded.
func traverse(val interface{}, fn func(string) error) error {
	entries, isList := split(val)
	for i, entry := range entries {
		if err := fn(entry); err != nil {
			if isList {
				var apiErr *apierror.Error
				if errors.As(err, &apiErr) {
					apiErr.Offset = i
					apiErr.Message = fmt.Sprintf("%s at offset %d", apiErr.Message, i)
				}
			}
			return err
		}
	}
	return nil
}

func split(val interface{}) ([]string, bool) {
	switch t := val.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, packet.Format(e))
		}
		return out, true
	case string:
		if strings.Contains(t, ",") {
			return strings.Split(t, ","), true
		}
		return []string{t}, false
	case nil:
		return []string{""}, false
	default:
		return []string{packet.Format(t)}, false
	}
}

func annotate(field string, err error) error {
	var inner *apierror.Error
	if !errors.As(err, &inner) {
		return err
	}
	kind, _ := inner.Details.(string)
	e := apierror.Validation(kind, fmt.Sprintf("Parameter '%s' - %s", field, inner.Message))
	e.Field = field
	e.Offset = inner.Offset
	e.Err = inner.Err
	return e
}

// IsEmpty reports whether v counts as missing: nil, "", "0", false, a zero
// number or an empty list.
func IsEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == "" || t == "0"
	case bool:
		return !t
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Required fails with a REQUIRED validation error on the first field of
// fields, in order, that is empty in data.
func Required(data map[string]interface{}, fields []string) error {
	for _, f := range fields {
		if IsEmpty(data[f]) {
			e := apierror.Validation(apierror.KindRequired, fmt.Sprintf("Parameter '%s' - %s", f, apierror.MsgFieldRequired))
			e.Field = f
			return e
		}
	}
	return nil
}
