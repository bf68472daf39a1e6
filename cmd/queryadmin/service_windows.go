//go:build windows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"queryadmin/internal/logger"
)

const serviceName = "QueryAdmin"
const serviceDisplayName = "QueryAdmin Console"
const serviceDescription = "QueryAdmin - web console for query templates and user accounts"

// consoleService implements the svc.Handler interface
type consoleService struct{}

// Execute is called by the Windows Service Control Manager
func (s *consoleService) Execute(args []string, changeReq <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	const cmdsAccepted = svc.AcceptStop | svc.AcceptShutdown

	status <- svc.Status{State: svc.StartPending}

	// Change to executable directory so .env, the database and logs are found
	exePath, err := os.Executable()
	if err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runServer(stop)
	}()

	status <- svc.Status{State: svc.Running, Accepts: cmdsAccepted}

	for {
		select {
		case err := <-done:
			if err != nil {
				logger.Error().Err(err).Msg("Server exited")
				return false, 1
			}
			return false, 0
		case c := <-changeReq:
			switch c.Cmd {
			case svc.Interrogate:
				status <- c.CurrentStatus
			case svc.Stop, svc.Shutdown:
				status <- svc.Status{State: svc.StopPending}
				close(stop)
				select {
				case <-done:
				case <-time.After(10 * time.Second):
				}
				return false, 0
			}
		}
	}
}

// isRunningAsService checks if the process is running as a Windows Service
func isRunningAsService() bool {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return false
	}
	return isService
}

// runAsService starts the application as a Windows Service
func runAsService() {
	err := svc.Run(serviceName, &consoleService{})
	if err != nil {
		fmt.Printf("Failed to run as service: %v\n", err)
		os.Exit(1)
	}
}

func serviceCommand(name string) {
	switch name {
	case "install":
		installService()
	case "uninstall":
		uninstallService()
	case "start":
		startService()
	case "stop":
		stopService()
	}
}

func connectManager() *mgr.Mgr {
	m, err := mgr.Connect()
	if err != nil {
		fmt.Printf("Failed to connect to service manager: %v\n", err)
		fmt.Println("Hint: Run this command as Administrator.")
		os.Exit(1)
	}
	return m
}

// installService registers QueryAdmin as a Windows Service
func installService() {
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}

	m := connectManager()
	defer m.Disconnect()

	// Check if service already exists
	s, err := m.OpenService(serviceName)
	if err == nil {
		s.Close()
		fmt.Printf("Service '%s' is already installed.\n", serviceName)
		return
	}

	s, err = m.CreateService(serviceName, exePath, mgr.Config{
		DisplayName: serviceDisplayName,
		Description: serviceDescription,
		StartType:   mgr.StartAutomatic,
	})
	if err != nil {
		fmt.Printf("Failed to install service: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	fmt.Printf("Service '%s' installed successfully.\n", serviceName)
	fmt.Println("Start with: queryadmin start")
}

// uninstallService removes QueryAdmin from Windows Services
func uninstallService() {
	m := connectManager()
	defer m.Disconnect()

	s, err := m.OpenService(serviceName)
	if err != nil {
		fmt.Printf("Service '%s' is not installed.\n", serviceName)
		return
	}
	defer s.Close()

	if err := s.Delete(); err != nil {
		fmt.Printf("Failed to uninstall service: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Service '%s' uninstalled successfully.\n", serviceName)
}

func startService() {
	m := connectManager()
	defer m.Disconnect()

	s, err := m.OpenService(serviceName)
	if err != nil {
		fmt.Printf("Service '%s' is not installed. Run 'queryadmin install' first.\n", serviceName)
		os.Exit(1)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		fmt.Printf("Failed to start service: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Service '%s' started.\n", serviceName)
}

// stopService asks the service to stop and waits for it to report Stopped.
func stopService() {
	m := connectManager()
	defer m.Disconnect()

	s, err := m.OpenService(serviceName)
	if err != nil {
		fmt.Printf("Service '%s' is not installed.\n", serviceName)
		os.Exit(1)
	}
	defer s.Close()

	st, err := s.Control(svc.Stop)
	if err != nil {
		fmt.Printf("Failed to stop service: %v\n", err)
		os.Exit(1)
	}

	deadline := time.Now().Add(15 * time.Second)
	for st.State != svc.Stopped {
		if time.Now().After(deadline) {
			fmt.Printf("Service '%s' did not stop in time.\n", serviceName)
			os.Exit(1)
		}
		time.Sleep(300 * time.Millisecond)
		if st, err = s.Query(); err != nil {
			fmt.Printf("Failed to query service: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Service '%s' stopped.\n", serviceName)
}
