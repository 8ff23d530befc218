// Servicio de firma de documentos: RSA PKCS#1 v1.5 sobre SHA-256, firma
// en hex. La firma se calcula siempre sobre los bytes exactos del archivo;
// si el contenido cambia después de firmar, Verify devuelve false.
package signature

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/tu-usuario/docuflow/internal/application/usecase"
	"github.com/tu-usuario/docuflow/pkg/config"
)

var _ usecase.DocumentSigner = (*Service)(nil)

// Service firma y verifica documentos con un par de llaves RSA fijo.
// Es stateless: ninguna operación muta el servicio.
type Service struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// New construye el servicio con un par de llaves ya cargado. publicKey
// puede derivarse de la privada si es nil.
func New(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) (*Service, error) {
	if privateKey == nil && publicKey == nil {
		return nil, errors.New("signature: se requiere al menos una llave")
	}
	if publicKey == nil {
		publicKey = &privateKey.PublicKey
	}
	return &Service{privateKey: privateKey, publicKey: publicKey}, nil
}

// NewFromConfig carga las llaves PEM desde las rutas configuradas.
func NewFromConfig(cfg config.SignatureConfig) (*Service, error) {
	if cfg.PrivateKeyPath == "" {
		return nil, errors.New("signature: ruta de llave privada no configurada")
	}
	privPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("signature: leer llave privada: %w", err)
	}
	priv, err := ParsePrivateKeyPEM(privPEM)
	if err != nil {
		return nil, err
	}
	var pub *rsa.PublicKey
	if cfg.PublicKeyPath != "" {
		pubPEM, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("signature: leer llave pública: %w", err)
		}
		pub, err = ParsePublicKeyPEM(pubPEM)
		if err != nil {
			return nil, err
		}
	}
	return New(priv, pub)
}

// Sign firma los bytes y devuelve la firma en hex. Determinista para el
// mismo contenido y la misma llave.
func (s *Service) Sign(data []byte) (string, error) {
	if s.privateKey == nil {
		return "", errors.New("signature: sin llave privada para firmar")
	}
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(nil, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("signature: firmar: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify comprueba la firma hex contra los bytes. Devuelve false (sin
// error) si la firma no corresponde; error solo ante hex malformado o
// llave pública ausente.
func (s *Service) Verify(data []byte, signatureHex string) (bool, error) {
	if s.publicKey == nil {
		return false, errors.New("signature: sin llave pública para verificar")
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false, fmt.Errorf("signature: firma hex malformada: %w", err)
	}
	digest := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(s.publicKey, crypto.SHA256, digest[:], sig); err != nil {
		return false, nil
	}
	return true, nil
}

// ParsePrivateKeyPEM acepta llaves RSA en PKCS#1 o PKCS#8.
func ParsePrivateKeyPEM(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("signature: PEM de llave privada inválido")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("signature: parsear llave privada: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("signature: la llave privada no es RSA")
	}
	return key, nil
}

// ParsePublicKeyPEM acepta llaves públicas RSA en PKIX o PKCS#1.
func ParsePublicKeyPEM(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("signature: PEM de llave pública inválido")
	}
	if parsed, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		if key, ok := parsed.(*rsa.PublicKey); ok {
			return key, nil
		}
		return nil, errors.New("signature: la llave pública no es RSA")
	}
	key, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("signature: parsear llave pública: %w", err)
	}
	return key, nil
}
