package port

import (
	"fmt"
	"net"
)

// Scanner checks whether host TCP ports are free before docker is asked
// to publish onto them, so a conflict surfaces as a clear anvil error
// instead of a docker bind failure halfway through starting QEMU.
//
// It asks the operating system directly via net.Listen, which is more
// reliable than parsing /proc/net/* or shelling out to lsof/ss, and needs
// no elevated permissions for unprivileged ports.
type Scanner struct{}

// NewScanner creates a new Scanner. No configuration is needed today;
// the constructor keeps the call sites stable if options appear later.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsAvailable reports whether a TCP port is free on the host.
//
// The probe binds to all interfaces (":port" rather than "127.0.0.1:port")
// because docker publishes on 0.0.0.0, so the same address space must be
// checked to avoid false positives. The probe listener is closed
// immediately — only availability is being tested.
func (s *Scanner) IsAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	defer func() { _ = listener.Close() }()
	return true
}

// FindAvailable scans [startPort, endPort] inclusive and returns the
// first free TCP port. The sequential search keeps the selection
// deterministic for a given host state.
//
// Returns an error when the whole range is occupied.
func (s *Scanner) FindAvailable(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		if s.IsAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available TCP port found in range %d-%d", startPort, endPort)
}
