package emu

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace    bool // log each Step's cycle budget and resulting IF value
	LimitFPS bool // carried for frontends; Machine does not read it and never throttles
	SaveType int  // cart.BackupType override; cart.AutoDetect lets the loader decide
}
