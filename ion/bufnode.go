/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import "io"

// Binary Ion prefixes every container with its encoded length, and the
// length prefix itself is variable-width, so nothing can hit the output
// stream until the whole enclosing value is known. Writers therefore build
// an in-memory tree of partially-serialized nodes and flush it once the
// lengths have settled.

// A bufnode is a node in the partially-serialized tree.
type bufnode interface {
	Len() uint64
	EmitTo(w io.Writer) error
}

// A bufseq is a bufnode holding an appendable sequence of child nodes.
type bufseq interface {
	bufnode
	Append(n bufnode)
}

var _ bufnode = atom(nil)
var _ bufseq = &datagram{}
var _ bufseq = &container{}

// An atom is a fully-serialized value, emitted as-is.
type atom []byte

func (a atom) Len() uint64 {
	return uint64(len(a))
}

func (a atom) EmitTo(w io.Writer) error {
	_, err := w.Write(a)
	return err
}

// A datagram is a bare sequence of nodes. The top level of the tree is a
// datagram: it buffers whole values until the local symbol table they
// depend on is final.
type datagram struct {
	len      uint64
	children []bufnode
}

func (d *datagram) Append(n bufnode) {
	d.len += n.Len()
	d.children = append(d.children, n)
}

func (d *datagram) Len() uint64 {
	return d.len
}

func (d *datagram) EmitTo(w io.Writer) error {
	for _, child := range d.children {
		if err := child.EmitTo(w); err != nil {
			return err
		}
	}

	return nil
}

// A container is a sequence preceded by a code+length tag. Its length
// prefix is computed at emit time, when the children are complete.
type container struct {
	code byte
	datagram
}

func (c *container) Len() uint64 {
	return c.len + tagLen(c.len)
}

func (c *container) EmitTo(w io.Writer) error {
	var arr [11]byte
	tag := appendTag(arr[:0], c.code, c.len)

	if _, err := w.Write(tag); err != nil {
		return err
	}
	return c.datagram.EmitTo(w)
}

// A bufstack tracks the open containers of a binary writer, mirroring its
// stack of Begin calls. Values are appended to the top sequence; popping
// a sequence flushes it into the one below.
type bufstack struct {
	arr []bufseq
}

func (s *bufstack) peek() bufseq {
	if len(s.arr) == 0 {
		return nil
	}
	return s.arr[len(s.arr)-1]
}

func (s *bufstack) push(b bufseq) {
	s.arr = append(s.arr, b)
}

func (s *bufstack) pop() {
	if len(s.arr) == 0 {
		panic("pop called on an empty stack")
	}
	s.arr = s.arr[:len(s.arr)-1]
}
