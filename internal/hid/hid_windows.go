//go:build windows

package hid

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows HID backend on SetupAPI and hid.dll through plain syscalls, so it
// builds without cgo.

var (
	hidDLL   = windows.NewLazySystemDLL("hid.dll")
	setupapi = windows.NewLazySystemDLL("setupapi.dll")

	procHidD_GetHidGuid                  = hidDLL.NewProc("HidD_GetHidGuid")
	procHidD_GetAttributes               = hidDLL.NewProc("HidD_GetAttributes")
	procHidD_GetProductString            = hidDLL.NewProc("HidD_GetProductString")
	procHidD_GetManufacturerString       = hidDLL.NewProc("HidD_GetManufacturerString")
	procHidD_GetPreparsedData            = hidDLL.NewProc("HidD_GetPreparsedData")
	procHidD_FreePreparsedData           = hidDLL.NewProc("HidD_FreePreparsedData")
	procHidP_GetCaps                     = hidDLL.NewProc("HidP_GetCaps")
	procSetupDiGetClassDevsW             = setupapi.NewProc("SetupDiGetClassDevsW")
	procSetupDiEnumDeviceInterfaces      = setupapi.NewProc("SetupDiEnumDeviceInterfaces")
	procSetupDiGetDeviceInterfaceDetailW = setupapi.NewProc("SetupDiGetDeviceInterfaceDetailW")
	procSetupDiDestroyDeviceInfoList     = setupapi.NewProc("SetupDiDestroyDeviceInfoList")
)

const (
	DIGCF_PRESENT         = 0x00000002
	DIGCF_DEVICEINTERFACE = 0x00000010
	INVALID_HANDLE_VALUE  = ^uintptr(0)
	HIDP_STATUS_SUCCESS   = 0x00110000
)

type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

type HIDD_ATTRIBUTES struct {
	Size          uint32
	VendorID      uint16
	ProductID     uint16
	VersionNumber uint16
}

type SP_DEVICE_INTERFACE_DATA struct {
	CbSize             uint32
	InterfaceClassGuid GUID
	Flags              uint32
	Reserved           uintptr
}

type SP_DEVICE_INTERFACE_DETAIL_DATA struct {
	CbSize     uint32
	DevicePath [1]uint16 // Variable length
}

type HIDP_CAPS struct {
	Usage                     uint16
	UsagePage                 uint16
	InputReportByteLength     uint16
	OutputReportByteLength    uint16
	FeatureReportByteLength   uint16
	Reserved                  [17]uint16
	NumberLinkCollectionNodes uint16
	NumberInputButtonCaps     uint16
	NumberInputValueCaps      uint16
	NumberInputDataIndices    uint16
	NumberOutputButtonCaps    uint16
	NumberOutputValueCaps     uint16
	NumberOutputDataIndices   uint16
	NumberFeatureButtonCaps   uint16
	NumberFeatureValueCaps    uint16
	NumberFeatureDataIndices  uint16
}

func init() {
	register("winhid", func() (Manager, error) { return &winManager{}, nil })
}

type winManager struct{}

func (m *winManager) List() ([]Info, error) {
	var hidGuid GUID
	procHidD_GetHidGuid.Call(uintptr(unsafe.Pointer(&hidGuid)))

	devInfo, _, err := procSetupDiGetClassDevsW.Call(
		uintptr(unsafe.Pointer(&hidGuid)),
		0,
		0,
		DIGCF_PRESENT|DIGCF_DEVICEINTERFACE,
	)
	if devInfo == 0 || devInfo == INVALID_HANDLE_VALUE {
		return nil, fmt.Errorf("SetupDiGetClassDevsW failed: %v", err)
	}
	defer procSetupDiDestroyDeviceInfoList.Call(devInfo)

	var devices []Info
	var devInterfaceData SP_DEVICE_INTERFACE_DATA
	devInterfaceData.CbSize = uint32(unsafe.Sizeof(devInterfaceData))

	for i := uint32(0); ; i++ {
		r, _, _ := procSetupDiEnumDeviceInterfaces.Call(
			devInfo,
			0,
			uintptr(unsafe.Pointer(&hidGuid)),
			uintptr(i),
			uintptr(unsafe.Pointer(&devInterfaceData)),
		)
		if r == 0 {
			break
		}

		path, ok := interfacePath(devInfo, &devInterfaceData)
		if !ok {
			continue
		}
		info, ok := describe(path)
		if !ok {
			continue
		}
		devices = append(devices, info)
	}

	return devices, nil
}

func interfacePath(devInfo uintptr, data *SP_DEVICE_INTERFACE_DATA) (string, bool) {
	var requiredSize uint32
	procSetupDiGetDeviceInterfaceDetailW.Call(
		devInfo,
		uintptr(unsafe.Pointer(data)),
		0,
		0,
		uintptr(unsafe.Pointer(&requiredSize)),
		0,
	)
	if requiredSize == 0 {
		return "", false
	}

	detailData := make([]byte, requiredSize)
	detail := (*SP_DEVICE_INTERFACE_DETAIL_DATA)(unsafe.Pointer(&detailData[0]))
	// sizeof(SP_DEVICE_INTERFACE_DETAIL_DATA_W) differs between 32 and 64 bit.
	if unsafe.Sizeof(uintptr(0)) == 8 {
		detail.CbSize = 8
	} else {
		detail.CbSize = 6
	}

	r, _, _ := procSetupDiGetDeviceInterfaceDetailW.Call(
		devInfo,
		uintptr(unsafe.Pointer(data)),
		uintptr(unsafe.Pointer(detail)),
		uintptr(requiredSize),
		0,
		0,
	)
	if r == 0 {
		return "", false
	}
	return windows.UTF16PtrToString(&detail.DevicePath[0]), true
}

// describe opens path without access rights, which is enough for the
// attributes, strings and top-level collection caps.
func describe(path string) (Info, bool) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Info{}, false
	}
	h, err := windows.CreateFile(
		pathPtr,
		0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return Info{}, false
	}
	defer windows.CloseHandle(h)

	var attrs HIDD_ATTRIBUTES
	attrs.Size = uint32(unsafe.Sizeof(attrs))
	r, _, _ := procHidD_GetAttributes.Call(uintptr(h), uintptr(unsafe.Pointer(&attrs)))
	if r == 0 {
		return Info{}, false
	}

	mfr := make([]uint16, 256)
	procHidD_GetManufacturerString.Call(uintptr(h), uintptr(unsafe.Pointer(&mfr[0])), uintptr(len(mfr)*2))
	prod := make([]uint16, 256)
	procHidD_GetProductString.Call(uintptr(h), uintptr(unsafe.Pointer(&prod[0])), uintptr(len(prod)*2))

	info := Info{
		Path:         path,
		VendorID:     attrs.VendorID,
		ProductID:    attrs.ProductID,
		Manufacturer: windows.UTF16ToString(mfr),
		Product:      windows.UTF16ToString(prod),
	}
	if caps, err := getCaps(h); err == nil {
		info.UsagePage = caps.UsagePage
		info.Usage = caps.Usage
	}
	return info, true
}

func getCaps(h windows.Handle) (HIDP_CAPS, error) {
	var caps HIDP_CAPS
	var preparsedData uintptr
	r, _, _ := procHidD_GetPreparsedData.Call(uintptr(h), uintptr(unsafe.Pointer(&preparsedData)))
	if r == 0 {
		return caps, fmt.Errorf("HidD_GetPreparsedData failed")
	}
	r, _, _ = procHidP_GetCaps.Call(preparsedData, uintptr(unsafe.Pointer(&caps)))
	procHidD_FreePreparsedData.Call(preparsedData)
	if r != HIDP_STATUS_SUCCESS {
		return caps, fmt.Errorf("HidP_GetCaps failed: 0x%X", r)
	}
	return caps, nil
}

func (m *winManager) Open(info Info) (Device, error) {
	pathPtr, err := windows.UTF16PtrFromString(info.Path)
	if err != nil {
		return nil, err
	}

	// Read access is all the poll loop needs; some collections refuse write.
	h, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0, // Synchronous I/O
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("CreateFile failed: %v", err)
	}

	caps, err := getCaps(h)
	if err != nil {
		windows.CloseHandle(h)
		return nil, err
	}

	d := &winDevice{handle: h, inputLen: int(caps.InputReportByteLength)}
	return newPumpedDevice(d.readInput, d.close), nil
}

type winDevice struct {
	handle   windows.Handle
	inputLen int
}

// readInput blocks in ReadFile until the next input report. Windows always
// prefixes the report ID, zero for devices without numbered reports.
func (d *winDevice) readInput() ([]byte, error) {
	report := make([]byte, d.inputLen)
	var read uint32
	if err := windows.ReadFile(d.handle, report, &read, nil); err != nil {
		return nil, fmt.Errorf("ReadFile failed: %v", err)
	}
	if read == 0 {
		return nil, nil
	}
	return numberedReport(report[0], report[1:read]), nil
}

// close cancels the pending ReadFile of the pump goroutine before releasing
// the handle.
func (d *winDevice) close() error {
	windows.CancelIoEx(d.handle, nil)
	return windows.CloseHandle(d.handle)
}
