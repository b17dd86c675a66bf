package proto

import "encoding/binary"

const (
	// ADTypeManufacturerData is the BLE AD type for manufacturer specific data.
	ADTypeManufacturerData = 0xFF

	// CompanyIDTest is the reserved company identifier used for the vendor data.
	CompanyIDTest uint16 = 0xFFFF

	// AdvertisementFlags is LE General Discoverable | BR/EDR not supported.
	AdvertisementFlags = 0x06

	// AdvertisementPayloadLen is the encoded size including the length prefix.
	AdvertisementPayloadLen = 14

	// offsetMinutesNegative marks a negative offset in the minutes byte when
	// the hours byte is zero and cannot carry the sign.
	offsetMinutesNegative = 0x80
)

// AdvertisementPayload encodes a time snapshot as a BLE AD structure.
//
// Layout:
//   - u8: length of the remaining bytes (13)
//   - u8: AD type 0xFF (manufacturer specific data)
//   - u16: company ID 0xFFFF (little-endian)
//   - u16: year (little-endian)
//   - u8: month, day, hour, minute, second
//   - i8: UTC offset hours
//   - u8: UTC offset minutes, absolute (0-127); bit 7 set means negative
//     when the hours byte is 0 (e.g. -00:30)
//   - u8: weekday (0 = Sunday)
//
// Every value encodes; out-of-range fields are clamped and the unset
// sentinel encodes to zeroed time bytes.
func AdvertisementPayload(w WallClockTime) []byte {
	buf := make([]byte, AdvertisementPayloadLen)
	buf[0] = AdvertisementPayloadLen - 1
	buf[1] = ADTypeManufacturerData
	binary.LittleEndian.PutUint16(buf[2:4], CompanyIDTest)
	putTimeData(buf[4:], w)
	return buf
}

func putTimeData(dst []byte, w WallClockTime) {
	binary.LittleEndian.PutUint16(dst[0:2], uint16(clamp(w.Year, 0, 0xFFFF)))
	dst[2] = clampByte(w.Month)
	dst[3] = clampByte(w.Day)
	dst[4] = clampByte(w.Hour)
	dst[5] = clampByte(w.Minute)
	dst[6] = clampByte(w.Second)
	dst[7] = byte(int8(clamp(w.OffsetHours, -128, 127)))
	dst[8] = byte(clamp(absInt(w.OffsetMinutes), 0, 0x7F))
	if w.OffsetHours == 0 && w.OffsetMinutes < 0 {
		dst[8] |= offsetMinutesNegative
	}
	dst[9] = clampByte(w.Weekday)
}

// DecodeAdvertisementPayload decodes an AdvertisementPayload.
func DecodeAdvertisementPayload(payload []byte) (w WallClockTime, ok bool) {
	if len(payload) < AdvertisementPayloadLen {
		return WallClockTime{}, false
	}
	if int(payload[0]) != AdvertisementPayloadLen-1 || payload[1] != ADTypeManufacturerData {
		return WallClockTime{}, false
	}
	if binary.LittleEndian.Uint16(payload[2:4]) != CompanyIDTest {
		return WallClockTime{}, false
	}
	return decodeTimeData(payload[4:AdvertisementPayloadLen]), true
}

// ManufacturerData splits an AdvertisementPayload into the company ID and the
// vendor bytes, for radio stacks that build the AD structure themselves.
func ManufacturerData(payload []byte) (companyID uint16, data []byte, ok bool) {
	if len(payload) < 4 || payload[1] != ADTypeManufacturerData {
		return 0, nil, false
	}
	n := int(payload[0]) + 1
	if n < 4 || n > len(payload) {
		return 0, nil, false
	}
	return binary.LittleEndian.Uint16(payload[2:4]), payload[4:n], true
}

func decodeTimeData(src []byte) WallClockTime {
	offMin := int(src[8])
	offHours := int(int8(src[7]))
	switch {
	case offHours < 0:
		offMin = -offMin
	case offHours == 0 && offMin&offsetMinutesNegative != 0:
		offMin = -(offMin &^ offsetMinutesNegative)
	}
	return WallClockTime{
		Year:          int(binary.LittleEndian.Uint16(src[0:2])),
		Month:         int(src[2]),
		Day:           int(src[3]),
		Hour:          int(src[4]),
		Minute:        int(src[5]),
		Second:        int(src[6]),
		OffsetHours:   offHours,
		OffsetMinutes: offMin,
		Weekday:       int(src[9]),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v int) byte { return byte(clamp(v, 0, 0xFF)) }
