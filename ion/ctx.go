package ion

import "fmt"

// ctx names the kind of container a reader or writer is currently inside.
type ctx uint8

const (
	ctxAtTopLevel ctx = iota
	ctxInStruct
	ctxInList
	ctxInSexp
)

func ctxToContainerType(c ctx) Type {
	switch c {
	case ctxInList:
		return ListType
	case ctxInSexp:
		return SexpType
	case ctxInStruct:
		return StructType
	default:
		return NoType
	}
}

func containerTypeToCtx(t Type) ctx {
	switch t {
	case ListType:
		return ctxInList
	case SexpType:
		return ctxInSexp
	case StructType:
		return ctxInStruct
	default:
		panic(fmt.Sprintf("type %v is not a container type", t))
	}
}

// A ctxstack tracks container nesting explicitly, so that arbitrarily deep
// input costs heap rather than call stack.
type ctxstack struct {
	arr []ctx
}

// peek returns the current context, ctxAtTopLevel when empty.
func (c *ctxstack) peek() ctx {
	if len(c.arr) == 0 {
		return ctxAtTopLevel
	}
	return c.arr[len(c.arr)-1]
}

func (c *ctxstack) push(v ctx) {
	c.arr = append(c.arr, v)
}

func (c *ctxstack) pop() {
	if len(c.arr) == 0 {
		panic("pop called at top level")
	}
	c.arr = c.arr[:len(c.arr)-1]
}

// depth returns the number of containers currently open.
func (c *ctxstack) depth() int {
	return len(c.arr)
}
