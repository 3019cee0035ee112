package scheme

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/bits"
	mathrand "math/rand/v2"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	charsetLower    = "abcdefghijklmnopqrstuvwxyz"
	charsetUpper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetDigits   = "0123456789"
	charsetAlphaNum = charsetLower + charsetUpper + charsetDigits
)

// randomBytes fills a fresh buffer from crypto/rand, falling back to the
// math/rand source when the secure one is unavailable.
func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		for i := range b {
			b[i] = byte(mathrand.Uint32())
		}
	}
	return b
}

// randomBelow returns a uniform index in [0, n) using rejection sampling
// over crypto/rand. n must be >= 1.
func randomBelow(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	mask := uint64(1)<<bits.Len64(n-1) - 1
	for {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return mathrand.Uint64N(n)
		}
		if v := binary.BigEndian.Uint64(b[:]) & mask; v < n {
			return v
		}
	}
}

type enumFunc struct {
	total uint64
	from  func(uint64) string
}

func (e enumFunc) TotalCount() uint64        { return e.total }
func (e enumFunc) FromIndex(i uint64) string { return e.from(i) }

// enumerated builds a scheme whose generator samples a uniform index and
// formats it through the enumerator, so generation and enumeration can
// never disagree about the value space.
func enumerated(key string, total uint64, from func(uint64) string) *Scheme {
	return &Scheme{
		Key:      key,
		Bits:     bitsOf(total),
		Generate: func() string { return from(randomBelow(total)) },
		Enum:     enumFunc{total: total, from: from},
	}
}

// opaque builds a scheme with no enumerator; its space is too large to
// index in a bounded integer range.
func opaque(key string, entropyBits float64, gen func() string) *Scheme {
	return &Scheme{Key: key, Bits: entropyBits, Generate: gen}
}

var dateEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateTotal is the number of days from 1900-01-01 through 2099-12-31.
const dateTotal = 73049

// passwordTotal is 62^8, the space of 8-character alphanumeric passwords.
const passwordTotal = 218340105584896

// luhnCheckDigit computes the Luhn check digit for a digit sequence that
// the digit will be appended to.
func luhnCheckDigit(digits []byte) byte {
	sum := 0
	double := true
	for k := len(digits) - 1; k >= 0; k-- {
		d := int(digits[k])
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		double = !double
		sum += d
	}
	return byte((10 - sum%10) % 10)
}

func creditCardFromIndex(i uint64) string {
	var digits [16]byte
	for k := 14; k >= 0; k-- {
		digits[k] = byte(i % 10)
		i /= 10
	}
	digits[15] = luhnCheckDigit(digits[:15])
	var out [16]byte
	for k, d := range digits {
		out[k] = '0' + d
	}
	return string(out[:])
}

func passwordFromIndex(i uint64) string {
	var out [8]byte
	for k := 7; k >= 0; k-- {
		out[k] = charsetAlphaNum[i%62]
		i /= 62
	}
	return string(out[:])
}

// Catalog returns a fresh copy of the built-in scheme catalog.
func Catalog() []*Scheme {
	return []*Scheme{
		enumerated("coin", 2, func(i uint64) string {
			if i == 0 {
				return "heads"
			}
			return "tails"
		}),
		enumerated("dice", 6, func(i uint64) string {
			return strconv.FormatUint(i+1, 10)
		}),
		enumerated("byte", 256, func(i uint64) string {
			return strconv.FormatUint(i, 10)
		}),
		enumerated("port", 65536, func(i uint64) string {
			return strconv.FormatUint(i, 10)
		}),
		enumerated("otp_4", 10_000, func(i uint64) string {
			return fmt.Sprintf("%04d", i)
		}),
		enumerated("otp_6", 1_000_000, func(i uint64) string {
			return fmt.Sprintf("%06d", i)
		}),
		enumerated("otp_8", 100_000_000, func(i uint64) string {
			return fmt.Sprintf("%08d", i)
		}),
		enumerated("ssn", 1_000_000_000, func(i uint64) string {
			return fmt.Sprintf("%03d-%02d-%04d", i/1_000_000, (i/10_000)%100, i%10_000)
		}),
		enumerated("hex_color", 1<<24, func(i uint64) string {
			return fmt.Sprintf("#%06x", i)
		}),
		enumerated("date", dateTotal, func(i uint64) string {
			return dateEpoch.AddDate(0, 0, int(i)).Format(time.DateOnly)
		}),
		enumerated("ipv4", 1<<32, func(i uint64) string {
			return fmt.Sprintf("%d.%d.%d.%d", byte(i>>24), byte(i>>16), byte(i>>8), byte(i))
		}),
		enumerated("phone_us", 10_000_000_000, func(i uint64) string {
			return fmt.Sprintf("%03d-%03d-%04d", i/10_000_000, (i/10_000)%1000, i%10_000)
		}),
		enumerated("mac", 1<<48, func(i uint64) string {
			return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
				byte(i>>40), byte(i>>32), byte(i>>24), byte(i>>16), byte(i>>8), byte(i))
		}),
		enumerated("password_8", passwordTotal, passwordFromIndex),
		enumerated("credit_card", 1_000_000_000_000_000, creditCardFromIndex),
		opaque("objectid", 96, func() string {
			return hex.EncodeToString(randomBytes(12))
		}),
		opaque("uuid_v4", 122, uuid.NewString),
		opaque("ipv6", 128, func() string {
			return net.IP(randomBytes(16)).String()
		}),
		opaque("api_key", 192, func() string {
			return base64.RawURLEncoding.EncodeToString(randomBytes(24))
		}),
		opaque("sha256", 256, func() string {
			return hex.EncodeToString(randomBytes(32))
		}),
	}
}

// DefaultRegistry builds a registry holding the full catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range Catalog() {
		if err := r.Register(s); err != nil {
			panic(err) // catalog keys are fixed at compile time
		}
	}
	return r
}
