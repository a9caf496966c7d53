package weave

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/weavetpl/weave/internal/wlog"
	"github.com/weavetpl/weave/parser"
	"github.com/weavetpl/weave/registry"
	"github.com/weavetpl/weave/value"
)

// LoopState is the `loop` variable bound inside a for body. Parent nests
// one level per enclosing loop so `loop.parent.index` reaches outward.
type LoopState struct {
	Index  int
	Length int
	Parent *LoopState
}

func (l *LoopState) IsFirst() bool { return l.Index == 0 }
func (l *LoopState) IsLast() bool  { return l.Index == l.Length-1 }

// ToValue renders the loop state as the object templates see as `loop`.
func (l *LoopState) ToValue() value.Value {
	obj := value.NewObject()
	obj.Set("index", value.FromInt(int64(l.Index)))
	obj.Set("index1", value.FromInt(int64(l.Index+1)))
	obj.Set("length", value.FromInt(int64(l.Length)))
	obj.Set("is_first", value.FromBool(l.IsFirst()))
	obj.Set("is_last", value.FromBool(l.IsLast()))
	if l.Parent != nil {
		obj.Set("parent", l.Parent.ToValue())
	} else {
		obj.Set("parent", value.Null())
	}
	return value.FromObject(obj)
}

// blockFrame tracks which override of a named block is currently
// rendering, so super() knows which ancestor body comes next.
type blockFrame struct {
	name  string
	level int
}

// State is one render's mutable evaluation context: the scope chain,
// current template (changes across includes and block bodies), loop
// nesting, block-inheritance stack, and the graceful-error sink. It is
// never shared between concurrent renders.
type State struct {
	env        *Environment
	tmpl       *compiledTemplate
	buf        strings.Builder
	scopes     []*value.Object
	ctx        value.Value
	loop       *LoopState
	blocks     []blockFrame
	graceful   bool
	autoEscape bool
	errs       []*Error
	renderID   string
}

func newState(env *Environment, tmpl *compiledTemplate, ctx value.Value, autoEscape bool) *State {
	s := &State{
		env:        env,
		tmpl:       tmpl,
		ctx:        ctx,
		graceful:   env.graceful,
		autoEscape: autoEscape,
		renderID:   newRenderID(),
	}
	global := value.NewObject()
	for name, v := range env.snapshotGlobals() {
		global.Set(name, v)
	}
	s.scopes = []*value.Object{global}
	return s
}

func (s *State) pushScope() { s.scopes = append(s.scopes, value.NewObject()) }
func (s *State) popScope()  { s.scopes = s.scopes[:len(s.scopes)-1] }

func (s *State) setVar(name string, v value.Value) {
	s.scopes[len(s.scopes)-1].Set(name, v)
}

func splitFirstSegment(name string) (head, rest string) {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return name, ""
}

// resolve looks a dotted path up the scope chain first, then against the
// render's root context.
func (s *State) resolve(name string) (value.Value, bool) {
	head, rest := splitFirstSegment(name)
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i].Get(head); ok {
			if rest == "" {
				return v, true
			}
			return v.Pointer("/" + strings.ReplaceAll(rest, ".", "/"))
		}
	}
	return s.ctx.Pointer(value.DotToPointer(name))
}

func (s *State) recordError(err *Error) {
	wlog.Warn("graceful render recovery", "template", s.tmpl.name, "kind", err.Kind.String(), "message", err.Message)
	s.errs = append(s.errs, err)
}

func (s *State) asError(kind ErrorKind, msg string) *Error {
	return NewError(kind, msg).WithName(s.tmpl.name)
}

// sourceSpan returns the original template text a node's span covers, for
// graceful mode to echo verbatim when the node fails to evaluate.
func (s *State) sourceSpan(span parser.Span) string {
	end := span.Offset + span.Length
	if span.Offset < 0 || end > len(s.tmpl.source) {
		return ""
	}
	return s.tmpl.source[span.Offset:end]
}

// Render walks the template's root block and returns the accumulated
// output plus any recoverable errors collected in graceful mode.
func (s *State) Render() (string, error) {
	s.env.instrument(InstrumentationEvent{Event: EventRenderStart, Detail: s.tmpl.name})
	err := s.evalBlockNode(s.tmpl.ast.Root)
	s.env.instrument(InstrumentationEvent{Event: EventRenderEnd, Detail: s.tmpl.name})
	if err != nil && !s.graceful {
		return s.buf.String(), err
	}
	return s.buf.String(), nil
}

func (s *State) evalBlockNode(b *parser.Block) error {
	for _, stmt := range b.Statements {
		if err := s.evalStmt(stmt); err != nil {
			if s.graceful {
				s.recordError(toWeaveError(err, s.tmpl.name))
				continue
			}
			return err
		}
	}
	return nil
}

func (s *State) evalStmt(n parser.Node) error {
	switch t := n.(type) {
	case *parser.Text:
		s.buf.WriteString(t.Content)
		return nil
	case *parser.Raw:
		s.buf.WriteString(t.Content)
		return nil
	case *parser.ExpressionList:
		v, err := s.evalExpr(t.Root)
		if err != nil {
			if s.graceful {
				s.recordError(toWeaveError(err, s.tmpl.name))
				s.buf.WriteString(s.sourceSpan(t.Span()))
				return nil
			}
			return err
		}
		s.writeValue(v)
		return nil
	case *parser.If:
		return s.evalIf(t)
	case *parser.ForArray:
		return s.evalForArray(t)
	case *parser.ForObject:
		return s.evalForObject(t)
	case *parser.Set:
		return s.evalSet(t)
	case *parser.Include:
		return s.evalInclude(t)
	case *parser.BlockStatement:
		return s.evalBlockStatement(t)
	default:
		return fmt.Errorf("cannot render statement of type %T", n)
	}
}

func (s *State) writeValue(v value.Value) {
	str := v.String()
	if s.autoEscape && v.Kind() == value.KindString {
		str = EscapeHTML(str)
	}
	s.buf.WriteString(str)
}

func (s *State) evalIf(n *parser.If) error {
	cond, err := s.evalExpr(n.Condition)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		return s.evalBlockNode(n.TrueBranch)
	}
	switch fb := n.FalseBranch.(type) {
	case nil:
		return nil
	case *parser.Block:
		return s.evalBlockNode(fb)
	case *parser.If:
		return s.evalIf(fb)
	default:
		return fmt.Errorf("unexpected if false-branch type %T", fb)
	}
}

func (s *State) evalForArray(n *parser.ForArray) error {
	iterVal, err := s.evalExpr(n.Iter)
	if err != nil {
		return err
	}
	arr, ok := iterVal.AsArray()
	if !ok {
		return s.asError(ErrInvalidOperation, fmt.Sprintf("cannot iterate over %s", iterVal.Kind()))
	}
	s.env.instrument(InstrumentationEvent{Event: EventForLoopStart, Detail: n.ValueName, Count: len(arr)})
	if len(arr) == 0 {
		if n.Else != nil {
			return s.evalBlockNode(n.Else)
		}
		return nil
	}
	parentLoop := s.loop
	for i, item := range arr {
		s.pushScope()
		s.setVar(n.ValueName, item)
		loop := &LoopState{Index: i, Length: len(arr), Parent: parentLoop}
		s.loop = loop
		s.setVar("loop", loop.ToValue())
		if n.Condition != nil {
			cond, err := s.evalExpr(n.Condition)
			if err != nil {
				s.popScope()
				s.loop = parentLoop
				return err
			}
			if !cond.Truthy() {
				s.popScope()
				continue
			}
		}
		s.env.instrument(InstrumentationEvent{Event: EventForLoopIteration, Detail: n.ValueName, Count: i})
		err := s.evalBlockNode(n.Body)
		s.popScope()
		if err != nil {
			s.loop = parentLoop
			return err
		}
	}
	s.loop = parentLoop
	s.env.instrument(InstrumentationEvent{Event: EventForLoopEnd, Detail: n.ValueName, Count: len(arr)})
	return nil
}

func (s *State) evalForObject(n *parser.ForObject) error {
	iterVal, err := s.evalExpr(n.Iter)
	if err != nil {
		return err
	}
	obj, ok := iterVal.AsObject()
	if !ok {
		return s.asError(ErrInvalidOperation, fmt.Sprintf("cannot iterate over %s", iterVal.Kind()))
	}
	keys := obj.Keys()
	s.env.instrument(InstrumentationEvent{Event: EventForLoopStart, Detail: n.ValueName, Count: len(keys)})
	if len(keys) == 0 {
		if n.Else != nil {
			return s.evalBlockNode(n.Else)
		}
		return nil
	}
	parentLoop := s.loop
	for i, k := range keys {
		v, _ := obj.Get(k)
		s.pushScope()
		s.setVar(n.KeyName, value.FromString(k))
		s.setVar(n.ValueName, v)
		loop := &LoopState{Index: i, Length: len(keys), Parent: parentLoop}
		s.loop = loop
		s.setVar("loop", loop.ToValue())
		if n.Condition != nil {
			cond, err := s.evalExpr(n.Condition)
			if err != nil {
				s.popScope()
				s.loop = parentLoop
				return err
			}
			if !cond.Truthy() {
				s.popScope()
				continue
			}
		}
		err := s.evalBlockNode(n.Body)
		s.popScope()
		if err != nil {
			s.loop = parentLoop
			return err
		}
	}
	s.loop = parentLoop
	s.env.instrument(InstrumentationEvent{Event: EventForLoopEnd, Detail: n.ValueName, Count: len(keys)})
	return nil
}

// evalSet tries the in-place self-assignment fast path (`set x = f(x, ...)`
// where f has a registered Inplace callback) before falling back to a
// full evaluate-then-assign.
func (s *State) evalSet(n *parser.Set) error {
	s.env.instrument(InstrumentationEvent{Event: EventSetStatementStart, Detail: n.Key})
	defer s.env.instrument(InstrumentationEvent{Event: EventSetStatementEnd, Detail: n.Key})

	if fn, ok := n.Expr.(*parser.Function); ok && fn.Inplace != nil && len(fn.Args) > 0 {
		if data, ok := fn.Args[0].(*parser.Data); ok && data.Name == n.Key {
			if cur, found := s.resolve(n.Key); found {
				args, err := s.evalArgs(fn.Args[1:])
				if err != nil {
					return err
				}
				applied, reason := fn.Inplace(&cur, args)
				if applied {
					s.setVar(n.Key, cur)
					s.env.instrument(InstrumentationEvent{Event: EventInplaceOptUsed, Detail: n.Key, Extra: reason})
					return nil
				}
				s.env.instrument(InstrumentationEvent{Event: EventInplaceOptSkipped, Detail: n.Key, Extra: reason})
				wlog.Debug("in-place optimization fallback", "template", s.tmpl.name, "variable", n.Key, "reason", reason)
			}
		}
	}

	val, err := s.evalExpr(n.Expr)
	if err != nil {
		if s.graceful {
			s.recordError(toWeaveError(err, s.tmpl.name))
			val = value.Null()
		} else {
			return err
		}
	}
	s.setVar(n.Key, val)
	return nil
}

func (s *State) evalInclude(n *parser.Include) error {
	s.env.instrument(InstrumentationEvent{Event: EventIncludeStart})
	defer s.env.instrument(InstrumentationEvent{Event: EventIncludeEnd})

	nameVal, err := s.evalExpr(n.FileName)
	if err != nil {
		return err
	}
	name, _ := nameVal.AsString()
	child, err := s.env.getCompiled(name)
	if err != nil {
		if n.IgnoreMissing {
			return nil
		}
		return s.asError(ErrTemplateNotFound, fmt.Sprintf("include %q: %v", name, err))
	}
	saved := s.tmpl
	s.tmpl = child
	err = s.evalBlockNode(child.ast.Root)
	s.tmpl = saved
	return err
}

// evalBlockStatement renders the most-derived override of a named block
// (index 0 of its chain); inheritance is already flattened by the parser
// (§4.2), so this never needs to consult an extends chain itself.
func (s *State) evalBlockStatement(n *parser.BlockStatement) error {
	chain := s.tmpl.ast.Blocks[n.Name]
	if len(chain) == 0 {
		return s.evalBlockNode(n.Body)
	}
	s.blocks = append(s.blocks, blockFrame{name: n.Name, level: 0})
	err := s.evalBlockNode(chain[0].Body)
	s.blocks = s.blocks[:len(s.blocks)-1]
	return err
}

// ---- expressions ----

func (s *State) evalExpr(n parser.Node) (value.Value, error) {
	v, found, err := s.evalTracked(n)
	if err != nil {
		return value.Null(), err
	}
	if !found {
		return value.Null(), s.asError(ErrUndefinedVariable, "variable is undefined")
	}
	return v, nil
}

func (s *State) evalArgs(nodes []parser.Node) ([]value.Value, error) {
	out := make([]value.Value, len(nodes))
	for i, n := range nodes {
		v, err := s.evalExpr(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalTracked evaluates an expression while preserving whether a Data
// lookup actually found something, for exists()/default() to see.
func (s *State) evalTracked(n parser.Node) (value.Value, bool, error) {
	switch t := n.(type) {
	case *parser.Literal:
		return t.Value, true, nil
	case *parser.Data:
		v, found := s.resolve(t.Name)
		return v, found, nil
	case *parser.ExpressionList:
		return s.evalTracked(t.Root)
	case *parser.Function:
		return s.evalFunction(t)
	default:
		return value.Null(), false, fmt.Errorf("cannot evaluate node of type %T", n)
	}
}

func (s *State) evalFunction(fn *parser.Function) (value.Value, bool, error) {
	switch fn.Op {
	case registry.OpNone:
		if s.graceful {
			s.recordError(s.asError(ErrUnknownFunction, fmt.Sprintf("unknown function or filter %q", fn.Name)).
				WithSuggestion(fn.Name, s.env.registryNames()))
			return value.Null(), false, nil
		}
		return value.Null(), false, s.asError(ErrUnknownFunction, fmt.Sprintf("unknown function or filter %q", fn.Name))

	case registry.OpExists:
		_, found, err := s.evalTracked(fn.Args[0])
		return value.FromBool(found), true, err

	case registry.OpDefault:
		v, found, err := s.evalTracked(fn.Args[0])
		if err != nil {
			return value.Null(), false, err
		}
		if found {
			return v, true, nil
		}
		return s.evalTracked(fn.Args[1])

	case registry.OpExistsInObject:
		container, err := s.evalExpr(fn.Args[0])
		if err != nil {
			return value.Null(), false, err
		}
		keyVal, err := s.evalExpr(fn.Args[1])
		if err != nil {
			return value.Null(), false, err
		}
		obj, ok := container.AsObject()
		if !ok {
			return value.FromBool(false), true, nil
		}
		key, _ := keyVal.AsString()
		_, exists := obj.Get(key)
		return value.FromBool(exists), true, nil

	case registry.OpAt, registry.OpAtID:
		container, found, err := s.evalTracked(fn.Args[0])
		if err != nil {
			return value.Null(), false, err
		}
		if !found {
			return value.Null(), false, nil
		}
		key, err := s.evalExpr(fn.Args[1])
		if err != nil {
			return value.Null(), false, err
		}
		if obj, ok := container.AsObject(); ok {
			k, _ := key.AsString()
			v, ok := obj.Get(k)
			return v, ok, nil
		}
		if arr, ok := container.AsArray(); ok {
			idx, ok := key.AsInt()
			if !ok || idx < 0 || int(idx) >= len(arr) {
				return value.Null(), false, nil
			}
			return arr[idx], true, nil
		}
		return value.Null(), false, nil

	case registry.OpSuper:
		return s.evalSuper(fn)

	case registry.OpCallback:
		args, err := s.evalArgs(fn.Args)
		if err != nil {
			return value.Null(), false, err
		}
		v, err := fn.Call(args)
		if err != nil {
			return value.Null(), false, s.asError(ErrInvalidOperation, err.Error())
		}
		return v, true, nil

	default:
		v, err := s.evalBuiltin(fn)
		return v, true, err
	}
}

func (s *State) evalSuper(fn *parser.Function) (value.Value, bool, error) {
	if len(s.blocks) == 0 {
		return value.Null(), false, s.asError(ErrSuperOutsideBlock, "super() called outside a block")
	}
	frame := s.blocks[len(s.blocks)-1]
	skip := 1
	if len(fn.Args) > 0 {
		v, err := s.evalExpr(fn.Args[0])
		if err != nil {
			return value.Null(), false, err
		}
		n, _ := v.AsInt()
		skip = int(n)
	}
	chain := s.tmpl.ast.Blocks[frame.name]
	next := frame.level + skip
	if next >= len(chain) {
		return value.Null(), false, s.asError(ErrSuperOutsideBlock, "no parent block body to call super() into")
	}

	saved := s.buf
	s.buf = strings.Builder{}
	s.blocks[len(s.blocks)-1] = blockFrame{name: frame.name, level: next}
	err := s.evalBlockNode(chain[next].Body)
	out := s.buf.String()
	s.blocks[len(s.blocks)-1] = frame
	s.buf = saved
	if err != nil {
		return value.Null(), false, err
	}
	return value.FromString(out), true, nil
}

// evalBuiltin evaluates every registry.OperationID the renderer knows how
// to execute directly: boolean/arithmetic/comparison operators plus the
// real-inja builtin functions (§4.3, §4.4).
func (s *State) evalBuiltin(fn *parser.Function) (value.Value, error) {
	args, err := s.evalArgs(fn.Args)
	if err != nil {
		return value.Null(), err
	}
	switch fn.Op {
	case registry.OpNot:
		return value.FromBool(!args[0].Truthy()), nil
	case registry.OpAnd:
		// Both operands are already evaluated above (REDESIGN FLAGS: no
		// short-circuiting); only the combination is lazy.
		return value.FromBool(args[0].Truthy() && args[1].Truthy()), nil
	case registry.OpOr:
		return value.FromBool(args[0].Truthy() || args[1].Truthy()), nil
	case registry.OpIn:
		return value.FromBool(args[1].Contains(args[0])), nil
	case registry.OpEqual:
		return value.FromBool(args[0].Equal(args[1])), nil
	case registry.OpNotEqual:
		return value.FromBool(!args[0].Equal(args[1])), nil
	case registry.OpLess, registry.OpLessEqual, registry.OpGreater, registry.OpGreaterEqual:
		return s.evalCompare(fn.Op, args[0], args[1])
	case registry.OpAdd:
		v, err := args[0].Add(args[1])
		return v, wrapArith(s, err)
	case registry.OpSub:
		v, err := args[0].Sub(args[1])
		return v, wrapArith(s, err)
	case registry.OpMul:
		v, err := args[0].Mul(args[1])
		return v, wrapArith(s, err)
	case registry.OpDiv:
		v, err := args[0].Div(args[1])
		return v, wrapDivision(s, err)
	case registry.OpMod:
		v, err := args[0].Mod(args[1])
		return v, wrapDivision(s, err)
	case registry.OpPow:
		v, err := args[0].Pow(args[1])
		return v, wrapArith(s, err)
	case registry.OpNeg:
		v, err := args[0].Neg()
		return v, wrapArith(s, err)
	case registry.OpLength:
		n, ok := args[0].Len()
		if !ok {
			return value.Null(), s.asError(ErrInvalidOperation, fmt.Sprintf("%s has no length", args[0].Kind()))
		}
		return value.FromInt(int64(n)), nil
	case registry.OpUpper:
		str, _ := args[0].AsString()
		return value.FromString(strings.ToUpper(str)), nil
	case registry.OpLower:
		str, _ := args[0].AsString()
		return value.FromString(strings.ToLower(str)), nil
	case registry.OpCapitalize:
		str, _ := args[0].AsString()
		return value.FromString(capitalize(str)), nil
	case registry.OpDivisibleBy:
		a, _ := args[0].AsInt()
		b, _ := args[1].AsInt()
		if b == 0 {
			return value.Null(), s.asError(ErrDivisionByZero, "divisible_by: zero divisor")
		}
		return value.FromBool(a%b == 0), nil
	case registry.OpEven:
		n, _ := args[0].AsInt()
		return value.FromBool(n%2 == 0), nil
	case registry.OpOdd:
		n, _ := args[0].AsInt()
		return value.FromBool(n%2 != 0), nil
	case registry.OpFirst:
		return firstLast(s, args[0], true)
	case registry.OpLast:
		return firstLast(s, args[0], false)
	case registry.OpFloat:
		return toFloatValue(args[0]), nil
	case registry.OpInt:
		return toIntValue(args[0]), nil
	case registry.OpIsArray:
		return value.FromBool(args[0].IsArray()), nil
	case registry.OpIsBoolean:
		_, ok := args[0].AsBool()
		return value.FromBool(ok), nil
	case registry.OpIsFloat:
		return value.FromBool(args[0].Kind() == value.KindFloat), nil
	case registry.OpIsInteger:
		return value.FromBool(args[0].Kind() == value.KindInt || args[0].Kind() == value.KindUint), nil
	case registry.OpIsNumber:
		return value.FromBool(args[0].IsNumber()), nil
	case registry.OpIsObject:
		return value.FromBool(args[0].IsObject()), nil
	case registry.OpIsString:
		return value.FromBool(args[0].IsString()), nil
	case registry.OpMax:
		return extremum(s, args, true)
	case registry.OpMin:
		return extremum(s, args, false)
	case registry.OpRange:
		v, err := buildRange(args)
		return v, wrapArith(s, err)
	case registry.OpReplace:
		str, _ := args[0].AsString()
		old, _ := args[1].AsString()
		repl, _ := args[2].AsString()
		return value.FromString(strings.ReplaceAll(str, old, repl)), nil
	case registry.OpRound:
		return roundValue(args), nil
	case registry.OpSort:
		arr, ok := args[0].AsArray()
		if !ok {
			return value.Null(), s.asError(ErrInvalidOperation, "sort expects an array")
		}
		return value.FromArray(value.SortedArrayCopy(arr)), nil
	case registry.OpJoin:
		arr, ok := args[0].AsArray()
		if !ok {
			return value.Null(), s.asError(ErrInvalidOperation, "join expects an array")
		}
		sep, _ := args[1].AsString()
		parts := make([]string, len(arr))
		for i, e := range arr {
			parts[i] = e.String()
		}
		return value.FromString(strings.Join(parts, sep)), nil
	default:
		return value.Null(), fmt.Errorf("unhandled operation %s", fn.Op)
	}
}

func wrapArith(s *State, err error) error {
	if err == nil {
		return nil
	}
	return s.asError(ErrInvalidOperation, err.Error())
}

func wrapDivision(s *State, err error) error {
	if err == nil {
		return nil
	}
	return s.asError(ErrDivisionByZero, err.Error())
}

func (s *State) evalCompare(op registry.OperationID, a, b value.Value) (value.Value, error) {
	c, ok := a.Compare(b)
	if !ok {
		return value.Null(), s.asError(ErrInvalidOperation, fmt.Sprintf("cannot order %s and %s", a.Kind(), b.Kind()))
	}
	switch op {
	case registry.OpLess:
		return value.FromBool(c < 0), nil
	case registry.OpLessEqual:
		return value.FromBool(c <= 0), nil
	case registry.OpGreater:
		return value.FromBool(c > 0), nil
	default:
		return value.FromBool(c >= 0), nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}

func firstLast(s *State, v value.Value, first bool) (value.Value, error) {
	arr, ok := v.AsArray()
	if !ok {
		return value.Null(), s.asError(ErrInvalidOperation, "first/last expects an array")
	}
	if len(arr) == 0 {
		return value.Null(), s.asError(ErrEmptyContainer, "first/last on an empty array")
	}
	if first {
		return arr[0], nil
	}
	return arr[len(arr)-1], nil
}

func toFloatValue(v value.Value) value.Value {
	if f, ok := v.AsFloat(); ok {
		return value.FromFloat(f)
	}
	if str, ok := v.AsString(); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return value.FromFloat(f)
		}
	}
	return value.FromFloat(0)
}

func toIntValue(v value.Value) value.Value {
	if i, ok := v.AsInt(); ok {
		return value.FromInt(i)
	}
	if str, ok := v.AsString(); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64); err == nil {
			return value.FromInt(i)
		}
	}
	return value.FromInt(0)
}

func extremum(s *State, args []value.Value, wantMax bool) (value.Value, error) {
	items := args
	if len(args) == 1 {
		if arr, ok := args[0].AsArray(); ok {
			items = arr
		}
	}
	if len(items) == 0 {
		return value.Null(), s.asError(ErrEmptyContainer, "max/min on an empty array")
	}
	best := items[0]
	for _, item := range items[1:] {
		c, ok := item.Compare(best)
		if !ok {
			continue
		}
		if (wantMax && c > 0) || (!wantMax && c < 0) {
			best = item
		}
	}
	return best, nil
}

func buildRange(args []value.Value) (value.Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		stop, _ = args[0].AsInt()
	case 2:
		start, _ = args[0].AsInt()
		stop, _ = args[1].AsInt()
	case 3:
		start, _ = args[0].AsInt()
		stop, _ = args[1].AsInt()
		step, _ = args[2].AsInt()
	}
	if step == 0 {
		return value.Null(), fmt.Errorf("range: step cannot be zero")
	}
	var out []value.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, value.FromInt(i))
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, value.FromInt(i))
		}
	}
	return value.FromArray(out), nil
}

func roundValue(args []value.Value) value.Value {
	f, _ := args[0].AsFloat()
	precision := 0
	if len(args) > 1 {
		p, _ := args[1].AsInt()
		precision = int(p)
	}
	mult := math.Pow(10, float64(precision))
	return value.FromFloat(math.Round(f*mult) / mult)
}
