package anvil

import "encoding/binary"

// NBT tag ids used by the chunk encoder.
const (
	tagEnd       byte = 0
	tagByte      byte = 1
	tagInt       byte = 3
	tagLong      byte = 4
	tagByteArray byte = 7
	tagList      byte = 9
	tagCompound  byte = 10
	tagIntArray  byte = 11
)

// nbtBuffer appends big-endian NBT tags to an in-memory buffer.
type nbtBuffer struct {
	b []byte
}

func (n *nbtBuffer) header(tag byte, name string) {
	n.b = append(n.b, tag)
	n.b = binary.BigEndian.AppendUint16(n.b, uint16(len(name)))
	n.b = append(n.b, name...)
}

// compound opens a compound. Use name="" for list elements.
func (n *nbtBuffer) compound(name string) { n.header(tagCompound, name) }

func (n *nbtBuffer) end() { n.b = append(n.b, tagEnd) }

func (n *nbtBuffer) byteTag(name string, v byte) {
	n.header(tagByte, name)
	n.b = append(n.b, v)
}

func (n *nbtBuffer) intTag(name string, v int32) {
	n.header(tagInt, name)
	n.b = binary.BigEndian.AppendUint32(n.b, uint32(v))
}

func (n *nbtBuffer) longTag(name string, v int64) {
	n.header(tagLong, name)
	n.b = binary.BigEndian.AppendUint64(n.b, uint64(v))
}

func (n *nbtBuffer) byteArray(name string, v []byte) {
	n.header(tagByteArray, name)
	n.b = binary.BigEndian.AppendUint32(n.b, uint32(len(v)))
	n.b = append(n.b, v...)
}

func (n *nbtBuffer) intArray(name string, v []int32) {
	n.header(tagIntArray, name)
	n.b = binary.BigEndian.AppendUint32(n.b, uint32(len(v)))
	for _, x := range v {
		n.b = binary.BigEndian.AppendUint32(n.b, uint32(x))
	}
}

// list opens a list of count elements of the given tag type.
func (n *nbtBuffer) list(name string, elem byte, count int) {
	n.header(tagList, name)
	n.b = append(n.b, elem)
	n.b = binary.BigEndian.AppendUint32(n.b, uint32(count))
}
