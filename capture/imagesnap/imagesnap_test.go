package imagesnap

import (
	"reflect"
	"testing"

	"github.com/framegrab/timelapse/device"
)

func TestParseDevices(t *testing.T) {
	const imagesnap0 = `Video Devices:
<AVCaptureDALDevice: 0x7fa2c7852fd0 [FaceTime HD Camera (Built-in)][0x8020000005ac8514]>
<AVCaptureDALDevice: 0x7fa2c78512f0 [FaceTime HD Camera (Display)][0x4015000005ac1112]>
<AVCaptureDALDevice: 0x7fa2c784f4e0 [Cam Link 4K #5][0x2000000fd90066]>
`

	devs0 := parseDevices(imagesnap0)
	exp0 := []device.Descriptor{
		{Index: 0, ID: 0, Name: "FaceTime HD Camera (Built-in)"},
		{Index: 1, ID: 1, Name: "FaceTime HD Camera (Display)"},
		{Index: 2, ID: 2, Name: "Cam Link 4K #5"},
	}
	if !reflect.DeepEqual(devs0, exp0) {
		t.Fatalf("imagesnap devices, got %v, expected %v", devs0, exp0)
	}

	const imagesnap1 = `Video Devices:
=> FaceTime HD Camera (Built-in)
`
	devs1 := parseDevices(imagesnap1)
	exp1 := []device.Descriptor{
		{Index: 0, ID: 0, Name: "FaceTime HD Camera (Built-in)"},
	}
	if !reflect.DeepEqual(devs1, exp1) {
		t.Fatalf("imagesnap devices, got %v, expected %v", devs1, exp1)
	}

	if devs := parseDevices("Video Devices:\n"); len(devs) != 0 {
		t.Fatalf("imagesnap without devices, got %v, expected none", devs)
	}
}
