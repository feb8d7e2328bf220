package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	assert.Equal(t, "/dev/ttyACM0", cfg.Device)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, time.Second, cfg.ReadTimeout)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{Baud: 9600}).Validate(), ErrNoDevice)
	assert.ErrorIs(t, (&Config{Device: "COM3"}).Validate(), ErrBaud)

	_, err := Open(nil)
	assert.ErrorIs(t, err, ErrNoDevice)
	_, err = Open(&Config{Device: "/dev/ttyUSB0", Baud: -1})
	assert.ErrorIs(t, err, ErrBaud)
}

func TestPortInfoString(t *testing.T) {
	tests := []struct {
		info PortInfo
		want string
	}{
		{PortInfo{Name: "/dev/ttyS0"}, "/dev/ttyS0"},
		{PortInfo{Name: "/dev/ttyACM0", USB: true, VID: "2E8A", PID: "000A"}, "/dev/ttyACM0 [2E8A:000A]"},
		{
			PortInfo{Name: "COM4", USB: true, VID: "2E8A", PID: "000A", Product: "Pico", Serial: "E6614"},
			"COM4 [2E8A:000A] Pico sn=E6614",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.info.String())
	}
}
