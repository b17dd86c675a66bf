package hal

// rgb565 packs 8-bit channels as rrrrrggggggbbbbb.
func rgb565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
}

// rgb888From565 widens p by bit replication so full scale stays 255.
func rgb888From565(p uint16) (r, g, b uint8) {
	r5, g6, b5 := uint8(p>>11)&0x1F, uint8(p>>5)&0x3F, uint8(p)&0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// fillRGB565 sets every little-endian pixel in buf to one color.
func fillRGB565(buf []byte, r, g, b uint8) {
	pixel := rgb565(r, g, b)
	lo, hi := byte(pixel), byte(pixel>>8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}
