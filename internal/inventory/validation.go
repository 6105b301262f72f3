package inventory

import (
	"fmt"
	"strings"
	"unicode"
)

// CleanName normalises a display name into a stable identifier:
// trim, lowercase, and collapse every run of non-alphanumeric
// characters into a single underscore. Deterministic, so repeated
// calls on the same input always agree.
func CleanName(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	return b.String()
}

// validEnv normalises and validates a cluster environment value.
func validEnv(env string) (Environment, error) {
	if env == "" {
		return "", fmt.Errorf("%w: missing environment", ErrInvalidClusterEnv)
	}
	e := Environment(strings.ToLower(env))
	switch e {
	case EnvProd, EnvDev, EnvStage:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q not in [prod,dev,stage]", ErrInvalidClusterEnv, env)
}

// validRole normalises and validates a role name.
func validRole(name string) (RoleName, error) {
	r := RoleName(strings.ToLower(name))
	switch r {
	case RolePrimary, RoleSecondary, RoleExperimental:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q not in [primary,secondary,experimental]", ErrInvalidRole, name)
}
