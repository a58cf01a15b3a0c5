// Package site serves the public marketing website: landing, story, team and
// pricing pages, the newsletter and feedback endpoints, price experiment
// tracking, sitemap and robots.
package site
