package template

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"
)

// evaluator executes the statements of one code segment. Emitted values
// accumulate into out, the segment's implicit output accumulator. locals
// shadow the render bindings and live for the duration of the segment.
type evaluator struct {
	vars   map[string]any
	locals map[string]any
	out    *strings.Builder
}

func newEvaluator(vars map[string]any, out *strings.Builder) *evaluator {
	return &evaluator{
		vars:   vars,
		locals: make(map[string]any),
		out:    out,
	}
}

func (ev *evaluator) execStmts(stmts []stmt) error {
	for _, s := range stmts {
		if err := ev.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (ev *evaluator) execStmt(s stmt) error {
	switch s := s.(type) {
	case exprStmt:
		v, err := ev.eval(s.e)
		if err != nil {
			return err
		}
		ev.out.WriteString(stringify(v))
		return nil

	case setStmt:
		v, err := ev.eval(s.e)
		if err != nil {
			return err
		}
		ev.locals[s.name] = v
		return nil

	case ifStmt:
		cond, err := ev.eval(s.cond)
		if err != nil {
			return err
		}
		if truthy(cond) {
			return ev.execStmts(s.then)
		}
		return ev.execStmts(s.els)

	case forStmt:
		seq, err := ev.eval(s.seq)
		if err != nil {
			return err
		}
		items, err := iterate(seq)
		if err != nil {
			return err
		}
		saved, shadowed := ev.locals[s.ident]
		for _, item := range items {
			ev.locals[s.ident] = item
			if err := ev.execStmts(s.body); err != nil {
				return err
			}
		}
		if shadowed {
			ev.locals[s.ident] = saved
		} else {
			delete(ev.locals, s.ident)
		}
		return nil
	}
	return fmt.Errorf("unknown statement %T", s)
}

func (ev *evaluator) eval(e expr) (any, error) {
	switch e := e.(type) {
	case litExpr:
		return e.v, nil

	case identExpr:
		if v, ok := ev.locals[e.name]; ok {
			return v, nil
		}
		if v, ok := ev.vars[e.name]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("undefined variable %q", e.name)

	case fieldExpr:
		x, err := ev.eval(e.x)
		if err != nil {
			return nil, err
		}
		return fieldOf(x, e.name)

	case indexExpr:
		x, err := ev.eval(e.x)
		if err != nil {
			return nil, err
		}
		i, err := ev.eval(e.i)
		if err != nil {
			return nil, err
		}
		return indexOf(x, i)

	case callExpr:
		args := make([]any, len(e.args))
		for i, arg := range e.args {
			v, err := ev.eval(arg)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return callBuiltin(e.name, args)

	case unaryExpr:
		x, err := ev.eval(e.x)
		if err != nil {
			return nil, err
		}
		switch e.op {
		case "not":
			return !truthy(x), nil
		case "-":
			switch n := x.(type) {
			case int64:
				return -n, nil
			case float64:
				return -n, nil
			}
			return nil, fmt.Errorf("cannot negate %T", x)
		}
		return nil, fmt.Errorf("unknown operator %q", e.op)

	case binaryExpr:
		return ev.evalBinary(e)
	}
	return nil, fmt.Errorf("unknown expression %T", e)
}

func (ev *evaluator) evalBinary(e binaryExpr) (any, error) {
	// Boolean operators short-circuit.
	if e.op == "and" || e.op == "or" {
		l, err := ev.eval(e.l)
		if err != nil {
			return nil, err
		}
		if e.op == "and" && !truthy(l) {
			return false, nil
		}
		if e.op == "or" && truthy(l) {
			return true, nil
		}
		r, err := ev.eval(e.r)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	}

	l, err := ev.eval(e.l)
	if err != nil {
		return nil, err
	}
	r, err := ev.eval(e.r)
	if err != nil {
		return nil, err
	}

	switch e.op {
	case "+":
		if ls, ok := l.(string); ok {
			return ls + stringify(r), nil
		}
		if rs, ok := r.(string); ok {
			return stringify(l) + rs, nil
		}
		return arith(l, r, e.op)
	case "-", "*", "/", "%":
		return arith(l, r, e.op)
	case "==":
		return looseEqual(l, r), nil
	case "!=":
		return !looseEqual(l, r), nil
	case "<", "<=", ">", ">=":
		return compare(l, r, e.op)
	}
	return nil, fmt.Errorf("unknown operator %q", e.op)
}

func arith(l, r any, op string) (any, error) {
	li, lok := asInt(l)
	ri, rok := asInt(r)
	if lok && rok {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "/":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return li / ri, nil
		case "%":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return li % ri, nil
		}
	}

	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, fmt.Errorf("invalid operands for %q: %T and %T", op, l, r)
	}
	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return lf / rf, nil
	}
	return nil, fmt.Errorf("invalid operands for %q: %T and %T", op, l, r)
}

func compare(l, r any, op string) (any, error) {
	if lf, ok := asFloat(l); ok {
		rf, ok := asFloat(r)
		if !ok {
			return nil, fmt.Errorf("invalid operands for %q: %T and %T", op, l, r)
		}
		switch op {
		case "<":
			return lf < rf, nil
		case "<=":
			return lf <= rf, nil
		case ">":
			return lf > rf, nil
		case ">=":
			return lf >= rf, nil
		}
	}

	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		switch op {
		case "<":
			return ls < rs, nil
		case "<=":
			return ls <= rs, nil
		case ">":
			return ls > rs, nil
		case ">=":
			return ls >= rs, nil
		}
	}
	return nil, fmt.Errorf("invalid operands for %q: %T and %T", op, l, r)
}

func looseEqual(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	if lf, ok := asFloat(l); ok {
		if rf, ok := asFloat(r); ok {
			return lf == rf
		}
	}
	return reflect.DeepEqual(l, r)
}

// fieldOf resolves dotted access: map key lookup for maps (missing keys
// yield nil, matching absent-field templates), exported struct fields via
// reflection otherwise.
func fieldOf(x any, name string) (any, error) {
	if x == nil {
		return nil, fmt.Errorf("cannot access field %q of nil", name)
	}
	if m, ok := x.(map[string]any); ok {
		return m[name], nil
	}

	v := reflect.ValueOf(x)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot access field %q of nil", name)
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		mv := v.MapIndex(reflect.ValueOf(name))
		if !mv.IsValid() {
			return nil, nil
		}
		return mv.Interface(), nil
	case reflect.Struct:
		fv := v.FieldByName(name)
		if !fv.IsValid() {
			return nil, fmt.Errorf("type %T has no field %q", x, name)
		}
		if !fv.CanInterface() {
			return nil, fmt.Errorf("field %q of %T is not accessible", name, x)
		}
		return fv.Interface(), nil
	}
	return nil, fmt.Errorf("cannot access field %q of %T", name, x)
}

func indexOf(x, i any) (any, error) {
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		n, ok := asInt(i)
		if !ok {
			return nil, fmt.Errorf("non-integer index %T", i)
		}
		if v.Kind() == reflect.String {
			// Index by rune so multi-byte text yields whole characters.
			runes := []rune(v.String())
			if n < 0 || n >= int64(len(runes)) {
				return nil, fmt.Errorf("index %d out of range", n)
			}
			return string(runes[n]), nil
		}
		if n < 0 || n >= int64(v.Len()) {
			return nil, fmt.Errorf("index %d out of range", n)
		}
		return v.Index(int(n)).Interface(), nil
	case reflect.Map:
		mv := v.MapIndex(reflect.ValueOf(i))
		if !mv.IsValid() {
			return nil, nil
		}
		return mv.Interface(), nil
	}
	return nil, fmt.Errorf("cannot index %T", x)
}

// iterate returns the elements of a sequence: slice/array elements in
// order, map values ordered by their string keys.
func iterate(x any) ([]any, error) {
	if x == nil {
		return nil, nil
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, v.Len())
		for i := range v.Len() {
			items[i] = v.Index(i).Interface()
		}
		return items, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot iterate map with %s keys", v.Type().Key())
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		items := make([]any, len(keys))
		for i, k := range keys {
			items[i] = v.MapIndex(reflect.ValueOf(k)).Interface()
		}
		return items, nil
	}
	return nil, fmt.Errorf("cannot iterate %T", x)
}

func callBuiltin(name string, args []any) (any, error) {
	switch name {
	case "len":
		if len(args) != 1 {
			return nil, fmt.Errorf("len takes 1 argument")
		}
		v := reflect.ValueOf(args[0])
		switch v.Kind() {
		case reflect.String:
			return int64(utf8.RuneCountInString(v.String())), nil
		case reflect.Slice, reflect.Array, reflect.Map:
			return int64(v.Len()), nil
		}
		return nil, fmt.Errorf("len of %T", args[0])

	case "upper":
		if len(args) != 1 {
			return nil, fmt.Errorf("upper takes 1 argument")
		}
		return strings.ToUpper(stringify(args[0])), nil

	case "lower":
		if len(args) != 1 {
			return nil, fmt.Errorf("lower takes 1 argument")
		}
		return strings.ToLower(stringify(args[0])), nil

	case "printf":
		if len(args) == 0 {
			return nil, fmt.Errorf("printf takes a format argument")
		}
		format, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("printf format must be a string")
		}
		return fmt.Sprintf(format, args[1:]...), nil
	}
	return nil, fmt.Errorf("unknown function %q", name)
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer:
		return !rv.IsNil()
	}
	return true
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	return fmt.Sprint(v)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
