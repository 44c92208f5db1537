// Copyright 2024 The fabtree Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package topoinfo

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Wire layout:
//
//	+----------------+----------------------------------------------+
//	| Count (4Bytes) | Count x records                              |
//	+----------------+-------------+------------------+-------------+
//	                 | Level (2B)  | LinkSpeed (4B)   | 3 x string  |
//	                 +-------------+------------------+-------------+
//
// Strings are length-prefixed (4 bytes) in the order name, nodes, switches.
// All integers are big endian.
var ErrTruncated = errors.New("topoinfo: truncated input")

// Encode serializes the snapshot.
func (t *TopoInfo) Encode() []byte {
	size := 4
	for _, r := range t.Records {
		size += 2 + 4 + 3*4 + len(r.Name) + len(r.Nodes) + len(r.Switches)
	}

	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(t.Records)))
	for _, r := range t.Records {
		buf = binary.BigEndian.AppendUint16(buf, r.Level)
		buf = binary.BigEndian.AppendUint32(buf, r.LinkSpeed)
		buf = appendString(buf, r.Name)
		buf = appendString(buf, r.Nodes)
		buf = appendString(buf, r.Switches)
	}
	return buf
}

// Decode deserializes a snapshot. A truncated buffer yields ErrTruncated
// and no partially constructed snapshot.
func Decode(buf []byte) (*TopoInfo, error) {
	var offset uint32
	count, offset, err := readUint32(buf, offset)
	if err != nil {
		return nil, err
	}

	t := &TopoInfo{}
	for i := uint32(0); i < count; i++ {
		var r Record
		var level uint16
		if level, offset, err = readUint16(buf, offset); err != nil {
			return nil, errors.Wrapf(err, "record %d of %d", i, count)
		}
		r.Level = level
		if r.LinkSpeed, offset, err = readUint32(buf, offset); err != nil {
			return nil, errors.Wrapf(err, "record %d of %d", i, count)
		}
		if r.Name, offset, err = readString(buf, offset); err != nil {
			return nil, errors.Wrapf(err, "record %d of %d", i, count)
		}
		if r.Nodes, offset, err = readString(buf, offset); err != nil {
			return nil, errors.Wrapf(err, "record %d of %d", i, count)
		}
		if r.Switches, offset, err = readString(buf, offset); err != nil {
			return nil, errors.Wrapf(err, "record %d of %d", i, count)
		}
		t.Records = append(t.Records, r)
	}
	return t, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func readUint16(buf []byte, offset uint32) (uint16, uint32, error) {
	if uint32(len(buf)) < offset+2 {
		return 0, 0, ErrTruncated
	}
	return binary.BigEndian.Uint16(buf[offset:]), offset + 2, nil
}

func readUint32(buf []byte, offset uint32) (uint32, uint32, error) {
	if uint32(len(buf)) < offset+4 {
		return 0, 0, ErrTruncated
	}
	return binary.BigEndian.Uint32(buf[offset:]), offset + 4, nil
}

func readString(buf []byte, offset uint32) (string, uint32, error) {
	strLen, offset, err := readUint32(buf, offset)
	if err != nil {
		return "", 0, err
	}
	if uint32(len(buf))-offset < strLen {
		return "", 0, ErrTruncated
	}
	return string(buf[offset : offset+strLen]), offset + strLen, nil
}
