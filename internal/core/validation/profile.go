package validation

// Snapshot is a field-key to value view of one entity.
// Values are string, bool, int or nil when the field is not set.
type Snapshot map[string]any

// FieldSpec lists the rules applied to one field of a snapshot.
type FieldSpec struct {
	Key      string
	Required bool
	Rules    []Rule
}

// CompositeCheck validates a relation between several fields. Check returns
// the field the failure is attached to and the code, or ok=true.
type CompositeCheck struct {
	Name  string
	Check func(s Snapshot) (key string, code ErrorCode, ok bool)
}

// Profile is a named table of field rules evaluated by Validate.
type Profile struct {
	Name   string
	Fields []FieldSpec
	Checks []CompositeCheck
}

// FieldErrors holds the failure codes for one field and the names of the
// rules that raised them, index for index.
type FieldErrors struct {
	Key   string
	Codes []ErrorCode
	Rules []string
}

// Errors is an ordered list of failing fields. Empty means valid.
type Errors []FieldErrors

// IsEmpty reports whether no field failed.
func (e Errors) IsEmpty() bool {
	return len(e) == 0
}

// Get returns the codes for key, or nil.
func (e Errors) Get(key string) []ErrorCode {
	for _, fe := range e {
		if fe.Key == key {
			return fe.Codes
		}
	}
	return nil
}

// Keys returns the failing field keys in order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for _, fe := range e {
		keys = append(keys, fe.Key)
	}
	return keys
}

// Map flattens the errors for callers that do not care about order.
func (e Errors) Map() map[string][]ErrorCode {
	m := make(map[string][]ErrorCode, len(e))
	for _, fe := range e {
		m[fe.Key] = append([]ErrorCode(nil), fe.Codes...)
	}
	return m
}

func (e Errors) add(key, rule string, code ErrorCode) Errors {
	for i := range e {
		if e[i].Key == key {
			e[i].Codes = append(e[i].Codes, code)
			e[i].Rules = append(e[i].Rules, rule)
			return e
		}
	}
	return append(e, FieldErrors{Key: key, Codes: []ErrorCode{code}, Rules: []string{rule}})
}

// Validate runs every field spec then every composite check against s.
// An empty optional field skips its rules; an empty required field only
// reports CodeRequired.
func (p Profile) Validate(s Snapshot) Errors {
	var errs Errors

	for _, spec := range p.Fields {
		value := s[spec.Key]
		if IsEmpty(value) {
			if spec.Required {
				errs = errs.add(spec.Key, Required.Name, CodeRequired)
			}
			continue
		}
		for _, rule := range spec.Rules {
			if ok, code := rule.Check(value); !ok {
				errs = errs.add(spec.Key, rule.Name, code)
			}
		}
	}

	for _, check := range p.Checks {
		if key, code, ok := check.Check(s); !ok {
			errs = errs.add(key, check.Name, code)
		}
	}

	return errs
}

// Strict returns a copy of p named name where keys are required.
// Keys unknown to p are appended as required fields without extra rules.
func (p Profile) Strict(name string, keys ...string) Profile {
	required := make(map[string]bool, len(keys))
	for _, k := range keys {
		required[k] = true
	}

	strict := Profile{Name: name, Checks: append([]CompositeCheck(nil), p.Checks...)}
	seen := make(map[string]bool, len(p.Fields))
	for _, spec := range p.Fields {
		spec.Required = spec.Required || required[spec.Key]
		strict.Fields = append(strict.Fields, spec)
		seen[spec.Key] = true
	}
	for _, k := range keys {
		if !seen[k] {
			strict.Fields = append(strict.Fields, FieldSpec{Key: k, Required: true})
		}
	}
	return strict
}

// WithCheck returns a copy of p with an extra composite check.
func (p Profile) WithCheck(check CompositeCheck) Profile {
	p.Fields = append([]FieldSpec(nil), p.Fields...)
	p.Checks = append(append([]CompositeCheck(nil), p.Checks...), check)
	return p
}

// AtLeastOneOf fails with code on attachTo when every key is empty.
func AtLeastOneOf(attachTo string, code ErrorCode, keys ...string) CompositeCheck {
	return CompositeCheck{
		Name: "at_least_one_of",
		Check: func(s Snapshot) (string, ErrorCode, bool) {
			for _, k := range keys {
				if !IsEmpty(s[k]) {
					return "", "", true
				}
			}
			return attachTo, code, false
		},
	}
}

func field(key string, rules ...Rule) FieldSpec {
	return FieldSpec{Key: key, Rules: rules}
}
