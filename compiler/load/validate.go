package load

import (
	"errors"
	"fmt"
	"strings"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/schema"
)

// ErrInvalid wraps every structural problem found by Validate. Each one is
// also an [ecsact.ValidationError].
var ErrInvalid = errors.New("load: invalid snapshot")

// Validate checks the structure of a single package snapshot. References
// across packages are checked when the snapshots are registered with
// meta.NewRegistry.
func Validate(pkg *schema.Package) error {
	v := &validator{pkg: pkg, ids: make(map[ecsact.ID]string)}
	v.check()
	return errors.Join(v.errs...)
}

type validator struct {
	pkg  *schema.Package
	ids  map[ecsact.ID]string
	errs []error
}

func (v *validator) errorf(format string, args ...any) {
	v.fail(fmt.Sprintf("package %q", v.pkg.Name), "", nil, fmt.Sprintf(format, args...))
}

func (v *validator) fail(decl, field string, value any, msg string) {
	err := ecsact.NewValidationError(decl, field, value, msg)
	v.errs = append(v.errs, fmt.Errorf("%w: %w", ErrInvalid, err))
}

func (v *validator) check() {
	if v.pkg.Name == "" {
		v.errorf("empty package name")
	} else if strings.HasPrefix(v.pkg.Name, ".") || strings.HasSuffix(v.pkg.Name, ".") {
		v.errorf("package name must not start or end with a dot")
	}
	for _, dep := range v.pkg.Dependencies {
		if dep == "" || dep == v.pkg.Name {
			v.errorf("invalid dependency %q", dep)
		}
	}
	for _, e := range v.pkg.Enums {
		v.declare(e.ID, "enum", e.Name)
		if !e.Storage.Integral() {
			v.errorf("enum %q: storage type %q is not integral", e.Name, e.Storage)
		}
		seen := make(map[string]bool, len(e.Values))
		for _, val := range e.Values {
			if val.Name == "" || seen[val.Name] {
				v.errorf("enum %q: empty or duplicate value name %q", e.Name, val.Name)
			}
			seen[val.Name] = true
		}
	}
	for _, c := range v.pkg.Components {
		v.composite("component", c)
	}
	for _, c := range v.pkg.Transients {
		v.composite("transient", c)
	}
	for _, a := range v.pkg.Actions {
		v.composite("action", &a.Composite)
		v.systemLike(a.Name, &a.SystemLike)
	}
	for _, s := range v.pkg.Systems {
		v.system(s)
	}
}

func (v *validator) declare(id ecsact.ID, label, name string) {
	if !id.Valid() {
		v.errorf("%s %q: negative id %d", label, name, id)
		return
	}
	if prev, ok := v.ids[id]; ok {
		v.errorf("%s %q: id %d already used by %s", label, name, id, prev)
		return
	}
	v.ids[id] = label + " " + name
}

func (v *validator) composite(label string, c *schema.Composite) {
	if c.Name == "" {
		v.errorf("%s %d: empty name", label, c.ID)
	}
	v.declare(c.ID, label, c.Name)
	decl := label + " " + v.pkg.Name + "." + c.Name
	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		switch {
		case f.Name == "":
			v.fail(decl, "", nil, "field with empty name")
		case seen[f.Name]:
			v.fail(decl, f.Name, nil, "duplicate field")
		}
		seen[f.Name] = true
		if f.Length < 0 {
			v.fail(decl, f.Name, f.Length, "negative length")
		}
		set := 0
		if f.Type != ecsact.BuiltinInvalid {
			set++
		}
		if f.Enum != nil {
			set++
		}
		if f.Index != nil {
			set++
		}
		if set != 1 {
			v.fail(decl, f.Name, nil, "exactly one of type, enum or index must be set")
		} else if f.Kind() == ecsact.TypeKindBuiltin && !f.Type.Valid() {
			v.fail(decl, f.Name, f.Type, "invalid builtin type")
		}
	}
}

func (v *validator) system(s *schema.System) {
	name := s.Name
	if name == "" {
		name = fmt.Sprintf("<anonymous %d>", s.ID)
	}
	v.declare(s.ID, "system", name)
	v.systemLike(name, &s.SystemLike)
}

func (v *validator) systemLike(name string, s *schema.SystemLike) {
	v.capabilities(name, s.Capabilities)
	for i, a := range s.Associations {
		if !a.Component.Valid() {
			v.errorf("system-like %q association %d: invalid component id %d", name, i, a.Component)
		}
		v.capabilities(fmt.Sprintf("%s association %d", name, i), a.Capabilities)
	}
	for i, g := range s.Generates {
		if len(g.Components) == 0 {
			v.errorf("system-like %q generates group %d: empty", name, i)
		}
	}
	if s.LazyRate < 0 {
		v.fail(fmt.Sprintf("system-like %q", name), "lazy", s.LazyRate, "negative lazy iteration rate")
	}
	for _, child := range s.Children {
		v.system(child)
	}
}

func (v *validator) capabilities(owner string, caps []*schema.Capability) {
	seen := make(map[ecsact.ID]bool, len(caps))
	for _, c := range caps {
		switch {
		case !c.Component.Valid():
			v.errorf("%s: capability on invalid component id %d", owner, c.Component)
		case seen[c.Component]:
			v.errorf("%s: component %d listed twice", owner, c.Component)
		case c.Flags == 0:
			v.errorf("%s: component %d has no capability flags", owner, c.Component)
		}
		seen[c.Component] = true
	}
}
