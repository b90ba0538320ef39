package components

// Colours are 0xRRGGBB.
const (
	SkyColor         uint32 = 0x5C94FC
	PlatformColor    uint32 = 0x8B4513
	CollectibleColor uint32 = 0xFFD700
	PlayerColor      uint32 = 0xE52521
	UsedBlockColor   uint32 = 0x808080
)

// Color returns the tint of a power-up and of the player while it is active.
func (t PowerUpType) Color() uint32 {
	switch t {
	case Star:
		return 0xFFD700
	case Mushroom:
		return 0xFF0000
	case Feather:
		return 0x00FF00
	default:
		return 0xFFFFFF
	}
}

// Color returns the fill of an unused block of type t.
func (t BlockType) Color() uint32 {
	switch t {
	case Question:
		return 0xFFD700
	case Brick:
		return 0x8B4513
	default:
		return UsedBlockColor
	}
}

func (k EnemyKind) Color() uint32 {
	if k == Koopa {
		return 0x2E8B57
	}
	return 0x654321
}

// RGB splits a 0xRRGGBB colour.
func RGB(c uint32) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}
