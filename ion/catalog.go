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

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// A Catalog provides shared symbol tables to readers resolving imports.
type Catalog interface {
	// FindExact returns the table with the given name and version, or nil.
	FindExact(name string, version int) SharedSymbolTable
	// FindLatest returns the highest version of the named table, or nil.
	FindLatest(name string) SharedSymbolTable
}

// A basicCatalog wraps an in-memory collection of shared symbol tables.
type basicCatalog struct {
	ssts   map[string]SharedSymbolTable
	latest map[string]SharedSymbolTable
}

// NewCatalog creates a catalog containing the given shared symbol tables.
func NewCatalog(ssts ...SharedSymbolTable) Catalog {
	cat := &basicCatalog{
		ssts:   make(map[string]SharedSymbolTable),
		latest: make(map[string]SharedSymbolTable),
	}
	for _, sst := range ssts {
		cat.add(sst)
	}
	return cat
}

func (c *basicCatalog) add(sst SharedSymbolTable) {
	key := fmt.Sprintf("%v/%v", sst.Name(), sst.Version())
	c.ssts[key] = sst

	cur, ok := c.latest[sst.Name()]
	if !ok || sst.Version() > cur.Version() {
		c.latest[sst.Name()] = sst
	}
}

func (c *basicCatalog) FindExact(name string, version int) SharedSymbolTable {
	key := fmt.Sprintf("%v/%v", name, version)
	return c.ssts[key]
}

func (c *basicCatalog) FindLatest(name string) SharedSymbolTable {
	return c.latest[name]
}

// A System is a reader and writer factory sharing a catalog and default
// writer imports.
type System struct {
	Catalog Catalog
	Imports []SharedSymbolTable
}

// NewReader creates a reader using this system's catalog.
func (s System) NewReader(in io.Reader) Reader {
	return NewReaderCat(in, s.Catalog)
}

// NewReaderStr creates a reader over str using this system's catalog.
func (s System) NewReaderStr(str string) Reader {
	return NewReaderCat(strings.NewReader(str), s.Catalog)
}

// NewReaderBytes creates a reader over in using this system's catalog.
func (s System) NewReaderBytes(in []byte) Reader {
	return NewReaderCat(bytes.NewReader(in), s.Catalog)
}

// NewTextWriter creates a text writer seeded with this system's imports.
func (s System) NewTextWriter(out io.Writer) Writer {
	return NewTextWriterOpts(out, 0, s.Imports...)
}

// NewBinaryWriter creates a binary writer seeded with this system's imports.
func (s System) NewBinaryWriter(out io.Writer) Writer {
	return NewBinaryWriter(out, s.Imports...)
}
