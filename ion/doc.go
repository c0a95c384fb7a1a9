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

// Package ion implements a reader and writer for the Ion data format,
// a richly-typed, self-describing serialization format with interchangeable
// binary and text encodings.
//
// A Reader is a pull-based cursor over a stream of Ion values. It is created
// from an io.Reader, a string, or a byte slice; the binary version marker at
// the head of a binary stream selects the binary decoder, anything else is
// parsed as text. Values are not materialized until asked for, and containers
// that are never stepped in to are skipped without decoding their children.
//
// A Writer is the dual: values are written one at a time, containers are
// opened and closed explicitly, and Finish flushes a complete datagram.
// Binary writers intern symbol text into a local symbol table that is
// emitted ahead of the data it describes.
//
// The Value type is an in-memory tree representation of a single Ion value,
// materialized from a Reader or written through a Writer, with equality
// semantics that follow the Ion data model rather than Go's structural
// equality.
//
// More information about the format can be found at
// https://amazon-ion.github.io/ion-docs/
package ion
