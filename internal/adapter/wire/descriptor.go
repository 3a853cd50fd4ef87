package wire

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

const (
	descriptorKeyword = "pow-params"
	descriptorScheme  = "v1"
	descriptorTime    = "2006-01-02T15:04:05"
)

// FormatDescriptor renders the descriptor line
//
//	pow-params v1 <seed-b64> <effort> <YYYY-MM-DDTHH:MM:SS>
//
// with the seed in unpadded base64 and the expiration in UTC.
func FormatDescriptor(p entity.Params) string {
	return fmt.Sprintf("%s %s %s %d %s",
		descriptorKeyword,
		descriptorScheme,
		base64.RawStdEncoding.EncodeToString(p.SeedID[:]),
		p.Effort,
		p.Expiration.UTC().Format(descriptorTime),
	)
}

func ParseDescriptor(line string) (entity.Params, error) {
	var p entity.Params
	f := strings.Fields(line)
	if len(f) != 5 || f[0] != descriptorKeyword {
		return p, malformed("not a pow-params line")
	}
	if f[1] != descriptorScheme {
		return p, malformed("unsupported scheme %q", f[1])
	}
	seed, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(f[2], "="))
	if err != nil || len(seed) != entity.SeedIDLen {
		return p, malformed("bad seed")
	}
	copy(p.SeedID[:], seed)
	effort, err := strconv.ParseUint(f[3], 10, 32)
	if err != nil {
		return p, malformed("bad effort %q", f[3])
	}
	p.Effort = uint32(effort)
	p.Expiration, err = time.ParseInLocation(descriptorTime, f[4], time.UTC)
	if err != nil {
		return p, malformed("bad expiration %q", f[4])
	}
	return p, nil
}
