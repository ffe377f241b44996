//go:build windows

package engine

import "syscall"

func dlOpen(path string) (uintptr, error) {
	h, err := syscall.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

func dlSym(handle uintptr, name string) (uintptr, error) {
	return syscall.GetProcAddress(syscall.Handle(handle), name)
}

func dlClose(handle uintptr) error {
	return syscall.FreeLibrary(syscall.Handle(handle))
}
