package scraper

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/browserutils/kooky"
	// Use all browsers for Kooky:
	_ "github.com/browserutils/kooky/browser/all"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/utils/logging"
)

// CookieManager exports browser cookies for the cookie download strategy.
type CookieManager struct {
	mu      sync.RWMutex
	cookies map[string][]*http.Cookie
	read    func(ctx context.Context, domain string) ([]*http.Cookie, error)
}

// NewCookieManager initializes a new cookie manager instance.
func NewCookieManager() *CookieManager {
	return &CookieManager{
		cookies: make(map[string][]*http.Cookie),
		read:    readBrowserCookies,
	}
}

// CookieFile writes the cookies for url into a temporary Netscape cookie file.
//
// When no cookies exist path is empty. cleanup is always safe to call.
func (cm *CookieManager) CookieFile(ctx context.Context, u string) (path string, cleanup func(), err error) {
	cleanup = func() {}

	cookies, err := cm.GetCookies(ctx, u)
	if err != nil {
		return "", cleanup, err
	}
	if len(cookies) == 0 {
		return "", cleanup, nil
	}

	f, err := os.CreateTemp("", "ytxtract-cookies-*.txt")
	if err != nil {
		return "", cleanup, fmt.Errorf("failed to create cookie file: %w", err)
	}
	path = f.Name()
	if err := f.Close(); err != nil {
		logging.E("failed to close file %q due to error: %v", path, err)
	}
	cleanup = func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logging.W("Failed to remove cookie file %q: %v", path, err)
		}
	}

	domain, _ := baseDomain(u)
	if err := saveCookiesToFile(cookies, domain, path); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return path, cleanup, nil
}

// GetCookies retrieves cookies for a given URL.
func (cm *CookieManager) GetCookies(ctx context.Context, u string) ([]*http.Cookie, error) {
	baseURL, err := baseDomain(u)
	if err != nil {
		return nil, fmt.Errorf("error extracting base domain in cookie grab: %w", err)
	}

	// Check if we already have cookies for this domain
	cm.mu.RLock()
	if cookies, ok := cm.cookies[baseURL]; ok {
		cm.mu.RUnlock()
		return cookies, nil
	}
	cm.mu.RUnlock()

	cookies, err := cm.read(ctx, baseURL)
	if err != nil {
		logging.D(2, "Failed reading cookies: %v", err)
		cookies = nil
	}

	cm.mu.Lock()
	cm.cookies[baseURL] = cookies
	cm.mu.Unlock()

	return cookies, nil
}

// readBrowserCookies loads the cookies of every installed browser for a domain.
func readBrowserCookies(ctx context.Context, domain string) ([]*http.Cookie, error) {
	kookieCookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil && len(kookieCookies) == 0 {
		return nil, err
	}

	if len(kookieCookies) > 0 {
		logging.I("Found %d cookies for %s", len(kookieCookies), domain)
		return convertToHTTPCookies(kookieCookies), nil
	}

	logging.I("No cookies found for %s", domain)
	return nil, nil
}

// convertToHTTPCookies converts kooky cookies to http.Cookie format.
func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, len(kookyCookies))
	for i, c := range kookyCookies {
		httpCookies[i] = &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
			Secure:  c.Secure,
		}
	}
	return httpCookies
}

// saveCookiesToFile saves the cookies to a file in Netscape format.
func saveCookiesToFile(cookies []*http.Cookie, domainFallback, cookieFilePath string) error {
	file, err := os.OpenFile(cookieFilePath, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, consts.PermsCookieFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.E("failed to close file %q due to error: %v", cookieFilePath, err)
		}
	}()

	// Write the header for the Netscape cookies file
	_, err = file.WriteString("# Netscape HTTP Cookie File\n# https://curl.haxx.se/rfc/cookie_spec.html\n# This is a generated file! Do not edit.\n\n")
	if err != nil {
		return err
	}

	logging.D(1, "Saving %d cookies to file %s...", len(cookies), cookieFilePath)

	for _, cookie := range cookies {
		domain := cookie.Domain
		if domain == "" {
			domain = domainFallback
		}

		includeSub := "FALSE"
		if strings.HasPrefix(domain, ".") {
			includeSub = "TRUE"
		}

		path := cookie.Path
		if path == "" {
			path = "/"
		}

		secure := "FALSE"
		if cookie.Secure {
			secure = "TRUE"
		}

		expires := int64(0)
		if !cookie.Expires.IsZero() {
			expires = cookie.Expires.Unix()
		}

		_, err := fmt.Fprintf(file, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, includeSub, path, secure, expires, cookie.Name, cookie.Value)
		if err != nil {
			return err
		}
	}
	return nil
}
