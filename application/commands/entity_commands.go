package commands

import (
	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

// UpdateResult reports whether an update matched a record and the record after it
type UpdateResult struct {
	Found  bool        `json:"found"`
	Record interface{} `json:"record,omitempty"`
}

// DeleteResult reports whether a delete matched a record. Cascade is set
// only for character deletions.
type DeleteResult struct {
	Found   bool                 `json:"found"`
	Cascade *ports.CascadeResult `json:"cascade,omitempty"`
}

// CreateCharacterCommand adds a character
type CreateCharacterCommand struct {
	Draft entities.CharacterDraft
}

func (c CreateCharacterCommand) Validate() error {
	return validateStruct(c.Draft)
}

// UpdateCharacterCommand merges a patch over a character
type UpdateCharacterCommand struct {
	ID    string
	Patch entities.CharacterPatch
}

func (c UpdateCharacterCommand) Validate() error {
	if err := requireID("character", c.ID); err != nil {
		return err
	}
	return validateStruct(c.Patch)
}

// DeleteCharacterCommand removes a character with its relationships and memories
type DeleteCharacterCommand struct {
	ID string
}

func (c DeleteCharacterCommand) Validate() error {
	return requireID("character", c.ID)
}

// CreateRelationshipCommand adds a relationship
type CreateRelationshipCommand struct {
	Draft entities.RelationshipDraft
}

func (c CreateRelationshipCommand) Validate() error {
	return validateStruct(c.Draft)
}

// UpdateRelationshipCommand merges a patch over a relationship
type UpdateRelationshipCommand struct {
	ID    string
	Patch entities.RelationshipPatch
}

func (c UpdateRelationshipCommand) Validate() error {
	if err := requireID("relationship", c.ID); err != nil {
		return err
	}
	return validateStruct(c.Patch)
}

// DeleteRelationshipCommand removes a relationship
type DeleteRelationshipCommand struct {
	ID string
}

func (c DeleteRelationshipCommand) Validate() error {
	return requireID("relationship", c.ID)
}

// CreateMemoryCommand adds a memory
type CreateMemoryCommand struct {
	Draft entities.MemoryDraft
}

func (c CreateMemoryCommand) Validate() error {
	return validateStruct(c.Draft)
}

// UpdateMemoryCommand merges a patch over a memory
type UpdateMemoryCommand struct {
	ID    string
	Patch entities.MemoryPatch
}

func (c UpdateMemoryCommand) Validate() error {
	if err := requireID("memory", c.ID); err != nil {
		return err
	}
	return validateStruct(c.Patch)
}

// DeleteMemoryCommand removes a memory
type DeleteMemoryCommand struct {
	ID string
}

func (c DeleteMemoryCommand) Validate() error {
	return requireID("memory", c.ID)
}

// ResetStoreCommand replaces the whole entity state
type ResetStoreCommand struct {
	Seed ports.SeedData
}

func (c ResetStoreCommand) Validate() error { return nil }
