// Package testing holds browser helpers for end-to-end tests. Chrome runs
// in the chromedp/headless-shell container; tests skip when Docker is
// missing.
package testing

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const dockerImage = "chromedp/headless-shell:latest"

// GetFreePort asks the kernel for a free open port that is ready to use
func GetFreePort() (port int, err error) {
	var a *net.TCPAddr
	if a, err = net.ResolveTCPAddr("tcp", "localhost:0"); err == nil {
		var l *net.TCPListener
		if l, err = net.ListenTCP("tcp", a); err == nil {
			defer l.Close()
			return l.Addr().(*net.TCPAddr).Port, nil
		}
	}
	return
}

// HostURL is the address Chrome, inside Docker, uses to reach a server on
// the host: localhost with host networking on Linux, host.docker.internal
// elsewhere.
func HostURL(port int) string {
	if runtime.GOOS == "linux" {
		return "http://localhost:" + strconv.Itoa(port)
	}
	return "http://host.docker.internal:" + strconv.Itoa(port)
}

// Chrome starts a headless Chrome container and returns a browser context
// connected to it. Everything is torn down when the test ends.
func Chrome(t *testing.T) context.Context {
	t.Helper()

	if err := exec.Command("docker", "version").Run(); err != nil {
		t.Skip("Docker not available, skipping browser test")
	}
	if err := exec.Command("docker", "image", "inspect", dockerImage).Run(); err != nil {
		t.Log("Pulling chromedp/headless-shell image...")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if out, err := exec.CommandContext(ctx, "docker", "pull", dockerImage).CombinedOutput(); err != nil {
			t.Skipf("Could not pull %s: %v\n%s", dockerImage, err, out)
		}
	}

	// The image serves the debugging endpoint on 9222. With host networking
	// that is the host port too.
	debugPort := 9222
	var args []string
	if runtime.GOOS == "linux" {
		args = []string{"run", "--rm", "--network", "host", "--name", containerName(debugPort), dockerImage}
	} else {
		port, err := GetFreePort()
		if err != nil {
			t.Fatalf("free port: %v", err)
		}
		debugPort = port
		args = []string{"run", "--rm", "-p", fmt.Sprintf("%d:9222", debugPort), "--name", containerName(debugPort),
			"--add-host", "host.docker.internal:host-gateway", dockerImage}
	}
	name := containerName(debugPort)
	cmd := exec.Command("docker", args...)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start Chrome container: %v", err)
	}
	t.Cleanup(func() { stopChrome(t, cmd, name) })

	versionURL := fmt.Sprintf("http://localhost:%d/json/version", debugPort)
	ready := false
	for i := 0; i < 60; i++ {
		resp, err := http.Get(versionURL)
		if err == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if !ready {
		t.Fatal("Chrome failed to start within 30 seconds")
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), fmt.Sprintf("ws://localhost:%d", debugPort))
	ctx, cancel := chromedp.NewContext(allocCtx)
	ctx, timeoutCancel := context.WithTimeout(ctx, 60*time.Second)
	t.Cleanup(func() {
		timeoutCancel()
		cancel()
		allocCancel()
	})
	return ctx
}

func containerName(port int) string {
	return fmt.Sprintf("storefront-e2e-%d", port)
}

func stopChrome(t *testing.T, cmd *exec.Cmd, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, "docker", "stop", "-t", "2", name).Run(); err != nil {
		t.Logf("docker stop %s: %v", name, err)
		_ = exec.Command("docker", "kill", name).Run()
	}
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = cmd.Wait()
}

// BlockExternal stops the page from loading anything outside the test
// server, such as CDN stylesheets and product photos.
func BlockExternal(hosts ...string) chromedp.Action {
	patterns := make([]string, len(hosts))
	for i, h := range hosts {
		patterns[i] = "*" + h + "*"
	}
	return chromedp.Tasks{
		network.Enable(),
		network.SetBlockedURLs(patterns),
	}
}

// WaitForLive waits until the page client has bound its handlers.
func WaitForLive() chromedp.Action {
	return chromedp.WaitReady(`body[data-live-ready]`, chromedp.ByQuery)
}

// CaptureRedirects keeps the page in place when an action answers with a
// redirect and records the target in window.__redirect instead. Actions must
// travel over HTTP, so the endpoint needs WebSocket disabled.
func CaptureRedirects() chromedp.Action {
	return chromedp.Evaluate(`
		(() => {
			const original = window.fetch;
			window.fetch = (...args) => original(...args)
				.then(res => res.json())
				.then(body => {
					if (body.meta && body.meta.redirect) {
						window.__redirect = body.meta.redirect;
						delete body.meta.redirect;
					}
					return new Response(JSON.stringify(body));
				});
			return true;
		})()
	`, nil)
}

// Redirect waits for a captured redirect and stores it in target.
func Redirect(target *string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		deadline := time.Now().Add(timeout)
		for {
			var got string
			if err := chromedp.Evaluate(`window.__redirect || ""`, &got).Do(ctx); err != nil {
				return err
			}
			if got != "" {
				*target = got
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("no redirect after %v", timeout)
			}
			time.Sleep(20 * time.Millisecond)
		}
	})
}

// ValidateNoTemplateExpressions fails when the element still shows raw
// template actions, meaning a template was rendered unparsed.
func ValidateNoTemplateExpressions(selector string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var innerHTML string
		if err := chromedp.InnerHTML(selector, &innerHTML, chromedp.ByQuery).Do(ctx); err != nil {
			return fmt.Errorf("failed to get innerHTML of %s: %w", selector, err)
		}
		for _, expr := range []string{"{{if", "{{range", "{{define", "{{template", "{{with", "{{else", "{{end}}"} {
			if idx := strings.Index(innerHTML, expr); idx >= 0 {
				start := max(idx-50, 0)
				end := min(idx+100, len(innerHTML))
				return fmt.Errorf("raw template expression %q in %s: ...%s...", expr, selector, innerHTML[start:end])
			}
		}
		return nil
	})
}
