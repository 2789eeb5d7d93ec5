// Copyright © 2025 The movan authors

package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/movelang/movan/lsp"
	"github.com/movelang/movan/sema"
)

// loadProject parses every .move file under root into a fresh project.
// The document store doubles as the location converter for output.
func loadProject(config *cmdConfig, root string) (*sema.Project, *lsp.DocumentStore, error) {
	if config.parser == nil {
		return nil, nil, lsp.ErrNoParser
	}
	addrs, err := loadAddresses(root)
	if err != nil {
		return nil, nil, err
	}

	docs := lsp.NewDocumentStore()
	project := sema.NewProject(docs, addrs)
	pkg := project.AddPackage(filepath.Base(root))

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".move") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc := docs.Open(config.parser, "file://"+path, 0, string(raw))
		kind := sema.KindSource
		if isTestPath(path) {
			kind = sema.KindTest
		}
		project.AddFile(pkg, path, doc.Hash, kind, doc.Defs)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return project, docs, nil
}

func isTestPath(path string) bool {
	for _, seg := range strings.Split(path, string(os.PathSeparator)) {
		if seg == "tests" {
			return true
		}
	}
	return false
}

// singleFileProject loads one file and returns the project and its path.
func singleFileProject(config *cmdConfig, file string) (*sema.Project, string, error) {
	if config.parser == nil {
		return nil, "", lsp.ErrNoParser
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, "", err
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", err
	}
	addrs, err := loadAddresses(filepath.Dir(abs))
	if err != nil {
		return nil, "", err
	}
	docs := lsp.NewDocumentStore()
	project := sema.NewProject(docs, addrs)
	pkg := project.AddPackage("main")
	doc := docs.Open(config.parser, "file://"+abs, 0, string(raw))
	project.AddFile(pkg, abs, doc.Hash, sema.KindSource, doc.Defs)
	return project, abs, nil
}
