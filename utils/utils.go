package utils

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"math"
	"math/big"
	"strconv"
)

// Sha512String hashes and encodes in hex the result
func Sha512String(s string) string {
	hash := sha512.New()
	hash.Write([]byte(s))
	return hex.EncodeToString(hash.Sum(nil))
}

func Float64ArrayToByteArray(fa []float64) []byte {
	buf := bytes.Buffer{}
	_ = binary.Write(&buf, binary.LittleEndian, fa)
	return buf.Bytes()
}

func ByteArrayToFloat64Array(b []byte) (result []float64) {
	for i := 0; i+8 <= len(b); i += 8 {
		ui64 := uint64(b[i+0]) +
			uint64(b[i+1])<<8 +
			uint64(b[i+2])<<16 +
			uint64(b[i+3])<<24 +
			uint64(b[i+4])<<32 +
			uint64(b[i+5])<<40 +
			uint64(b[i+6])<<48 +
			uint64(b[i+7])<<56
		result = append(result, math.Float64frombits(ui64))
	}
	return
}

func RandSalt(saltSize int) string {
	b := make([]byte, saltSize)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func Rand8BytesToBase62() string {
	buf := make([]byte, 8)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	var i big.Int
	return i.SetBytes(buf).Text(62)
}

func StringToFloat64Ptr(in string) *float64 {
	f, _ := strconv.ParseFloat(in, 64)
	return &f
}
