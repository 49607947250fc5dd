package ffmpeg

import (
	"reflect"
	"testing"

	"github.com/framegrab/timelapse/device"
)

func TestParseDevices(t *testing.T) {
	const listing = `Integrated Camera: Integrated C (usb-0000:00:14.0-8):
	/dev/video0
	/dev/video1

Anker PowerConf C200 (usb-0000:00:14.0-2):
	/dev/video2
	/dev/video3

bcm2835-codec-decode (platform:bcm2835-codec):
	/dev/video10
`

	got := parseDevices(listing)
	exp := []device.Descriptor{
		{Index: 0, ID: 0, Name: "Integrated Camera: Integrated C (usb-0000:00:14.0-8) (/dev/video0)"},
		{Index: 1, ID: 1, Name: "Integrated Camera: Integrated C (usb-0000:00:14.0-8) (/dev/video1)"},
		{Index: 2, ID: 2, Name: "Anker PowerConf C200 (usb-0000:00:14.0-2) (/dev/video2)"},
		{Index: 3, ID: 3, Name: "Anker PowerConf C200 (usb-0000:00:14.0-2) (/dev/video3)"},
	}
	if !reflect.DeepEqual(got, exp) {
		t.Fatalf("v4l2-ctl devices, got %v, expected %v", got, exp)
	}

	if got := parseDevices(""); len(got) != 0 {
		t.Fatalf("empty listing, got %v, expected no devices", got)
	}
}
