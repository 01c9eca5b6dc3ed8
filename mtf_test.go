package mtfgo

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rroohhh/mtfgo/dblk"
	"github.com/rroohhh/mtfgo/errs"
	"github.com/rroohhh/mtfgo/format"
	"github.com/rroohhh/mtfgo/stream"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backup.bkf")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func buildHeaderBytes(kind uint32, attrs uint32, offsetToFirstEvent uint16, stringType uint8) []byte {
	buf := make([]byte, dblk.HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], kind)
	binary.LittleEndian.PutUint32(buf[4:8], attrs)
	binary.LittleEndian.PutUint16(buf[8:10], offsetToFirstEvent)
	buf[48] = stringType

	checksum := format.Checksum(buf)
	binary.LittleEndian.PutUint16(buf[50:52], checksum)

	return buf
}

func buildStreamHeaderBytes(id string, length uint64) []byte {
	buf := make([]byte, 0, stream.HeaderSize)
	buf = append(buf, []byte(id)...)
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = binary.LittleEndian.AppendUint64(buf, length)
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = binary.LittleEndian.AppendUint16(buf, 0)

	checksum := format.Checksum(buf)
	binary.LittleEndian.PutUint16(buf[stream.HeaderSize-2:], checksum)

	return buf
}

func TestParser_SingleDBLKWithStream(t *testing.T) {
	const kindVOLB = 0x424C4F56

	volbHeader := buildHeaderBytes(kindVOLB, 0, dblk.HeaderSize+21, 0)
	// VOLB body: attrs(4) + 3 absent TapeAddress(4 each) + date(5) = 21 bytes
	volbBody := make([]byte, 21)

	payload := []byte{1, 2, 3, 4}
	mqdaHeader := buildStreamHeaderBytes("MQDA", uint64(len(payload)))
	spad := buildStreamHeaderBytes(stream.SPAD, 0)

	var data []byte
	data = append(data, volbHeader...)
	data = append(data, volbBody...)
	data = append(data, mqdaHeader...)
	data = append(data, payload...)
	data = append(data, spad...)

	path := writeTempFile(t, data)
	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	block, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, block.DBLK.Body.Volb)
	require.Len(t, block.Streams, 2)
	require.Equal(t, "MQDA", block.Streams[0].Header.ID)

	mapped, err := p.Bytes()
	require.NoError(t, err)
	require.Equal(t, payload, block.Streams[0].Data(mapped))

	// No bytes remain for another header: running off the true end of the
	// mapped input surfaces as a short read rather than a clean stop.
	_, _, err = p.Next()
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
}

func TestParser_EmptyFile(t *testing.T) {
	path := writeTempFile(t, nil)
	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	_, _, err = p.Next()
	require.ErrorIs(t, err, errs.ErrUnexpectedEnd)
}

func TestParser_All_StopsOnError(t *testing.T) {
	// A truncated header: not enough bytes for a full DBLK header triggers
	// an UnexpectedEnd error from the very first Next call.
	data := make([]byte, 10)
	path := writeTempFile(t, data)

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	var sawErr bool
	for _, err := range p.All() {
		if err != nil {
			sawErr = true
		}
	}
	require.True(t, sawErr)
}
