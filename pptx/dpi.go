package pptx

import (
	"bytes"
	"encoding/binary"
	"math"
)

// defaultDPI is used when an image does not record its resolution.
const defaultDPI = 72

// imageDPI returns the horizontal and vertical resolution recorded in the
// image: the pHYs chunk of a PNG, the JFIF density of a JPEG. Anything
// else, or a missing or unusable value, gives defaultDPI.
func imageDPI(data []byte, format string) (horz, vert int) {
	switch format {
	case "png":
		horz, vert = pngDPI(data)
	case "jpeg":
		horz, vert = jfifDPI(data)
	}
	if horz <= 0 {
		horz = defaultDPI
	}
	if vert <= 0 {
		vert = defaultDPI
	}
	return horz, vert
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngDPI walks the chunks before the image data looking for pHYs.
// Only a unit of 1 (pixels per meter) carries a resolution.
func pngDPI(data []byte) (horz, vert int) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, 0
	}

	for off := len(pngSignature); off+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		body := off + 8
		if length < 0 || body+length > len(data) {
			return 0, 0
		}

		switch typ {
		case "pHYs":
			if length < 9 || data[body+8] != 1 {
				return 0, 0
			}
			x := binary.BigEndian.Uint32(data[body:])
			y := binary.BigEndian.Uint32(data[body+4:])
			return perMeterToDPI(x), perMeterToDPI(y)
		case "IDAT", "IEND":
			return 0, 0
		}

		off = body + length + 4 // crc
	}
	return 0, 0
}

func perMeterToDPI(v uint32) int {
	return int(math.Round(float64(v) * 0.0254))
}

// jfifDPI reads the density of the JFIF APP0 segment. Units 1 are dots per
// inch, units 2 dots per centimeter.
func jfifDPI(data []byte) (horz, vert int) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0
	}

	for off := 2; off+4 <= len(data); {
		if data[off] != 0xFF {
			return 0, 0
		}
		marker := data[off+1]
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) || marker == 0xFF {
			off++
			continue
		}
		// start of scan: no more headers
		if marker == 0xDA || marker == 0xD9 {
			return 0, 0
		}

		length := int(binary.BigEndian.Uint16(data[off+2:]))
		if length < 2 {
			return 0, 0
		}
		seg := data[off+4 : min(off+2+length, len(data))]

		if marker == 0xE0 && len(seg) >= 12 && string(seg[:5]) == "JFIF\x00" {
			units := seg[7]
			x := int(binary.BigEndian.Uint16(seg[8:]))
			y := int(binary.BigEndian.Uint16(seg[10:]))
			switch units {
			case 1:
				return x, y
			case 2:
				return int(math.Round(float64(x) * 2.54)), int(math.Round(float64(y) * 2.54))
			}
			return 0, 0
		}

		off += 2 + length
	}
	return 0, 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// pixelsToEMU converts a pixel count at dpi to EMU.
func pixelsToEMU(px, dpi int) EMU {
	return EMU(int64(px) * emuPerInch / int64(dpi))
}
