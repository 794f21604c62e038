package arfs

import (
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permavault/permavault/internal/gateway"
)

func folderNode(txID string, driveID, folderID, parentID uuid.UUID, name string, unixTime string) gateway.TransactionNode {
	tags := []gateway.Tag{
		{Name: TagEntityType, Value: "folder"},
		{Name: TagDriveID, Value: driveID.String()},
		{Name: TagFolderID, Value: folderID.String()},
		{Name: TagEntityName, Value: name},
		{Name: TagUnixTime, Value: unixTime},
	}
	if parentID != uuid.Nil {
		tags = append(tags, gateway.Tag{Name: TagParentFolderID, Value: parentID.String()})
	}
	return gateway.TransactionNode{ID: txID, Tags: tags}
}

func TestEntityFromNode_Folder(t *testing.T) {
	driveID, folderID, parentID := uuid.New(), uuid.New(), uuid.New()

	e, err := EntityFromNode(folderNode("tx1", driveID, folderID, parentID, "photos", "1700000000"))
	require.NoError(t, err)

	assert.Equal(t, EntityTypeFolder, e.Type)
	assert.Equal(t, folderID, e.EntityID)
	assert.Equal(t, driveID, e.DriveID)
	assert.Equal(t, parentID, e.ParentFolderID)
	assert.Equal(t, "photos", e.Name)
	assert.Equal(t, int64(1700000000), e.Revision)
}

func TestEntityFromNode_RootFolderHasNoParent(t *testing.T) {
	driveID, folderID := uuid.New(), uuid.New()

	e, err := EntityFromNode(folderNode("tx1", driveID, folderID, uuid.Nil, "root", "1"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, e.ParentFolderID)
}

func TestEntityFromNode_File(t *testing.T) {
	driveID, fileID := uuid.New(), uuid.New()

	e, err := EntityFromNode(gateway.TransactionNode{ID: "tx2", Tags: []gateway.Tag{
		{Name: TagEntityType, Value: "file"},
		{Name: TagDriveID, Value: driveID.String()},
		{Name: TagFileID, Value: fileID.String()},
		{Name: TagEntityName, Value: "cat.jpg"},
	}})
	require.NoError(t, err)
	assert.Equal(t, EntityTypeFile, e.Type)
	assert.Equal(t, fileID, e.EntityID)
}

func TestEntityFromNode_Drive(t *testing.T) {
	driveID := uuid.New()

	e, err := EntityFromNode(gateway.TransactionNode{ID: "tx3", Tags: []gateway.Tag{
		{Name: TagEntityType, Value: "drive"},
		{Name: TagDriveID, Value: driveID.String()},
	}})
	require.NoError(t, err)
	assert.Equal(t, EntityTypeDrive, e.Type)
	assert.Equal(t, driveID, e.EntityID)
}

func TestEntityFromNode_Malformed(t *testing.T) {
	driveID := uuid.New()

	tests := []struct {
		name string
		node gateway.TransactionNode
	}{
		{name: "unknown type", node: gateway.TransactionNode{ID: "tx", Tags: []gateway.Tag{
			{Name: TagEntityType, Value: "mystery"},
		}}},
		{name: "missing drive id", node: gateway.TransactionNode{ID: "tx", Tags: []gateway.Tag{
			{Name: TagEntityType, Value: "folder"},
			{Name: TagFolderID, Value: uuid.NewString()},
		}}},
		{name: "missing folder id", node: gateway.TransactionNode{ID: "tx", Tags: []gateway.Tag{
			{Name: TagEntityType, Value: "folder"},
			{Name: TagDriveID, Value: driveID.String()},
		}}},
		{name: "bad unix time", node: gateway.TransactionNode{ID: "tx", Tags: []gateway.Tag{
			{Name: TagEntityType, Value: "folder"},
			{Name: TagDriveID, Value: driveID.String()},
			{Name: TagFolderID, Value: uuid.NewString()},
			{Name: TagUnixTime, Value: "yesterday"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EntityFromNode(tt.node)
			assert.ErrorIs(t, err, ErrMalformedEntity)
		})
	}
}

// xorCipher is a stand-in CipherProvider: it xors data with key[0]^iv[0].
type xorCipher struct{}

func (xorCipher) Encrypt(plaintext, key []byte) ([]byte, []byte, error) {
	iv := []byte{0x5a}
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ key[0] ^ iv[0]
	}
	return out, iv, nil
}

func (c xorCipher) Decrypt(iv, key, ciphertext []byte) ([]byte, error) {
	out := make([]byte, len(ciphertext))
	for i, b := range ciphertext {
		out[i] = b ^ key[0] ^ iv[0]
	}
	return out, nil
}

func TestEntityFromNode_PrivateEntityCipherTags(t *testing.T) {
	driveID, folderID := uuid.New(), uuid.New()

	node := folderNode("tx-private", driveID, folderID, uuid.Nil, "secrets", "1")
	node.Tags = append(node.Tags,
		gateway.Tag{Name: TagCipher, Value: "AES256-GCM"},
		gateway.Tag{Name: TagCipherIV, Value: base64.RawURLEncoding.EncodeToString([]byte{0x5a})},
	)

	e, err := EntityFromNode(node)
	require.NoError(t, err)
	assert.True(t, e.IsPrivate())
	assert.Equal(t, "AES256-GCM", e.Cipher)
	assert.Equal(t, []byte{0x5a}, e.CipherIV)

	node.Tags[len(node.Tags)-1].Value = "%%% not base64 %%%"
	_, err = EntityFromNode(node)
	assert.ErrorIs(t, err, ErrMalformedEntity)
}

func TestOpenData(t *testing.T) {
	key := []byte{0x42}
	cipher := xorCipher{}

	sealed, iv, err := cipher.Encrypt([]byte("drive metadata"), key)
	require.NoError(t, err)

	private := Entity{Cipher: "AES256-GCM", CipherIV: iv}
	got, err := private.OpenData(cipher, key, sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("drive metadata"), got)

	public := Entity{}
	assert.False(t, public.IsPrivate())
	got, err = public.OpenData(cipher, key, []byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), got)
}

func TestLatestRevisions(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()

	entities := []Entity{
		{EntityID: id1, Name: "old", Revision: 10},
		{EntityID: id2, Name: "other", Revision: 5},
		{EntityID: id1, Name: "new", Revision: 20},
	}

	got := LatestRevisions(entities)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Name)
	assert.Equal(t, "other", got[1].Name)
}

func TestFolderNodes_SkipsNonFolders(t *testing.T) {
	folderID := uuid.New()

	nodes := FolderNodes([]Entity{
		{Type: EntityTypeFolder, EntityID: folderID, Name: "docs", Revision: 3},
		{Type: EntityTypeFile, EntityID: uuid.New(), Name: "cat.jpg"},
		{Type: EntityTypeDrive, EntityID: uuid.New(), Name: "drive"},
	})

	require.Len(t, nodes, 1)
	assert.Equal(t, folderID, nodes[0].ID)
	assert.Equal(t, "docs", nodes[0].Name)
	assert.Equal(t, int64(3), nodes[0].Revision)
}
