package store

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/huanfeng/rustoredl/pkg/models"
)

const hexDigits = "0123456789abcdef"

// Identity is the device identity presented to the backend. It is built once
// per process and never mutated afterwards.
type Identity struct {
	deviceID string
	headers  http.Header
}

// NewDeviceID returns 16 random lowercase hex characters, "--" and a random
// 9-digit number.
func NewDeviceID(r *rand.Rand) string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		b.WriteByte(hexDigits[r.IntN(len(hexDigits))])
	}
	return fmt.Sprintf("%s--%d", b.String(), 100000000+r.IntN(899999999))
}

// NewRandomSource returns a generator seeded from the runtime's entropy.
func NewRandomSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewIdentity builds the header set sent with every backend request.
func NewIdentity(device models.DeviceConfig, r *rand.Rand) *Identity {
	deviceID := NewDeviceID(r)

	headers := make(http.Header)
	headers.Set("Deviceid", deviceID)
	headers.Set("Firmwarever", device.FirmwareVersion)
	headers.Set("Devicemodel", device.Model)
	headers.Set("Firmwarelang", device.FirmwareLang)
	headers.Set("Rustorevercode", device.StoreVersionCode)
	headers.Set("Devicetype", device.Type)
	headers.Set("Content-Type", "application/json; charset=utf-8")
	headers.Set("User-Agent", device.UserAgent)

	return &Identity{
		deviceID: deviceID,
		headers:  headers,
	}
}

// DeviceID returns the generated device identifier
func (i *Identity) DeviceID() string {
	return i.deviceID
}

// Headers returns a copy of the header set
func (i *Identity) Headers() http.Header {
	return i.headers.Clone()
}

// Apply sets the identity headers on req
func (i *Identity) Apply(req *http.Request) {
	for key, values := range i.headers {
		req.Header[key] = append([]string(nil), values...)
	}
}
